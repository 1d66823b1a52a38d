package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/taskhub/internal/access"
	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/models"
)

func authorize(ctx context.Context, ev *access.Evaluator, caller *models.User, res access.Resource, capability access.Capability) error {
	ok, err := ev.Authorize(ctx, caller, res, capability)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s %d: %w", capability, res.Kind, res.ID, domain.ErrForbidden)
	}
	return nil
}
