package httpserver

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/middleware/auth"
	"github.com/Skotchmaster/taskhub/internal/models"
)

func idParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: bad %s", domain.ErrValidation, name)
	}
	return uint(v), nil
}

func intQuery(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

func caller(c echo.Context) (*models.User, error) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: invalid body", domain.ErrValidation)
	}
	return nil
}
