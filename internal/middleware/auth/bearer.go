package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/models"
)

const userKey = "user"

type Resolver interface {
	Resolve(ctx context.Context, bearer string) (*models.User, error)
}

type BearerAuth struct {
	Resolver Resolver
}

func NewBearerAuth(r Resolver) *BearerAuth {
	return &BearerAuth{Resolver: r}
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		user, err := m.Resolver.Resolve(c.Request().Context(), token)
		if err != nil {
			status, msg := http.StatusUnauthorized, "could not validate credentials"
			switch {
			case errors.Is(err, domain.ErrAccountInactive):
				status, msg = http.StatusForbidden, "account is inactive"
			case errors.Is(err, domain.ErrInvalidToken),
				errors.Is(err, domain.ErrWrongTokenKind),
				errors.Is(err, domain.ErrUserNotFound):
			default:
				l.Error("auth_failed", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
			}
			l.Warn("auth_failed", "status", status, "error", err)
			if status == http.StatusUnauthorized {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			}
			return echo.NewHTTPError(status, msg)
		}

		c.Set(userKey, user)
		ctx := logging.IntoContext(c.Request().Context(), l.With("user_id", user.ID))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userKey).(*models.User)
	return u, ok && u != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
