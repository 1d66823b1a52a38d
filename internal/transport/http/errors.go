package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/service"
)

// statusFor maps the domain taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrWrongTokenKind),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSearchDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int, err error) string {
	switch status {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusUnauthorized:
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return domain.ErrInvalidCredentials.Error()
		case errors.Is(err, domain.ErrInvalidRefreshToken):
			return domain.ErrInvalidRefreshToken.Error()
		}
		return "could not validate credentials"
	case http.StatusForbidden:
		if errors.Is(err, domain.ErrAccountInactive) {
			return domain.ErrAccountInactive.Error()
		}
		return "not enough permissions"
	case http.StatusNotFound:
		return "not found"
	case http.StatusServiceUnavailable:
		return service.ErrSearchDisabled.Error()
	default:
		return "internal server error"
	}
}

func httpError(c echo.Context, handler string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", handler)
	status := statusFor(err)
	if status >= 500 {
		l.Error(handler+"_failed", "status", status, "error", err)
		return echo.NewHTTPError(status, messageFor(status, err)).SetInternal(err)
	}
	l.Warn(handler+"_failed", "status", status, "error", err)
	return echo.NewHTTPError(status, messageFor(status, err))
}
