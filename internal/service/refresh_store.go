package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/tokens"
)

// RefreshStore keeps at most one live refresh token per user. Tokens are
// persisted by fingerprint, never in the clear.
type RefreshStore struct {
	table RefreshTable
	users UserDirectory
	codec *tokens.Codec
}

func NewRefreshStore(table RefreshTable, users UserDirectory, codec *tokens.Codec) *RefreshStore {
	return &RefreshStore{table: table, users: users, codec: codec}
}

func (s *RefreshStore) Save(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	return s.table.SaveRefresh(ctx, userID, tokens.Fingerprint(token), expiresAt)
}

// ConsumeAndValidate returns the user bound to a live refresh token, or nil.
// A record found past its expiry is deleted on the way out. Only storage
// failures are returned as errors.
func (s *RefreshStore) ConsumeAndValidate(ctx context.Context, token string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "refresh_store")

	claims, err := s.codec.Decode(token)
	if err != nil {
		l.Debug("refresh_rejected", "reason", "decode", "error", err)
		return nil, nil
	}
	if claims.Kind != tokens.KindRefresh {
		l.Debug("refresh_rejected", "reason", "kind", "kind", claims.Kind)
		return nil, nil
	}

	rec, err := s.table.FindRefresh(ctx, tokens.Fingerprint(token))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !s.codec.Now().Before(rec.ExpiresAt) {
		if err := s.table.DeleteRefresh(ctx, rec.ID); err != nil {
			return nil, err
		}
		l.Info("refresh_expired_removed", "user_id", rec.UserID)
		return nil, nil
	}

	if claims.Subject != strconv.FormatUint(uint64(rec.UserID), 10) {
		l.Warn("refresh_rejected", "reason", "subject mismatch", "user_id", rec.UserID)
		return nil, nil
	}

	user, err := s.users.FindUserByID(ctx, rec.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *RefreshStore) PurgeExpired(ctx context.Context) (int64, error) {
	return s.table.DeleteExpiredRefresh(ctx, s.codec.Now())
}
