package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "auth_register", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return httpError(c, "auth_register", err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "auth_login", err)
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httpError(c, "auth_login", err)
	}

	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "auth_refresh", err)
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return httpError(c, "auth_refresh", err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "users_me", err)
	}
	return c.JSON(http.StatusOK, user)
}
