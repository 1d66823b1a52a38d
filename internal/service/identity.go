package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/tokens"
)

// IdentityResolver turns a bearer access token into the active user it names.
type IdentityResolver struct {
	Codec *tokens.Codec
	Users UserDirectory
}

func (r *IdentityResolver) Resolve(ctx context.Context, bearer string) (*models.User, error) {
	claims, err := r.Codec.Decode(bearer)
	if err != nil {
		return nil, err
	}
	if claims.Kind != tokens.KindAccess {
		return nil, fmt.Errorf("resolve identity: got %q token: %w", claims.Kind, domain.ErrWrongTokenKind)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("resolve identity: subject %q: %w", claims.Subject, domain.ErrUserNotFound)
	}

	user, err := r.Users.FindUserByID(ctx, uint(id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve identity: user %d: %w", id, domain.ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("resolve identity: user %d: %w", id, domain.ErrAccountInactive)
	}
	return user, nil
}
