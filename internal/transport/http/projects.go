package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type ProjectHTTP struct {
	Svc *service.ProjectService
}

func (h *ProjectHTTP) Create(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "project_create", err)
	}
	var req transport.CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "project_create", err)
	}

	p, err := h.Svc.Create(c.Request().Context(), user, req)
	if err != nil {
		return httpError(c, "project_create", err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProjectHTTP) List(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "project_list", err)
	}

	items, err := h.Svc.List(c.Request().Context(), user)
	if err != nil {
		return httpError(c, "project_list", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProjectHTTP) Get(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "project_get", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "project_get", err)
	}

	p, err := h.Svc.Get(c.Request().Context(), user, id)
	if err != nil {
		return httpError(c, "project_get", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHTTP) Update(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "project_update", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "project_update", err)
	}
	var req transport.PatchProjectRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "project_update", err)
	}

	p, err := h.Svc.Update(c.Request().Context(), user, id, req)
	if err != nil {
		return httpError(c, "project_update", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHTTP) Delete(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "project_delete", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "project_delete", err)
	}

	if err := h.Svc.Delete(c.Request().Context(), user, id); err != nil {
		return httpError(c, "project_delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProjectHTTP) Stats(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "project_stats", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "project_stats", err)
	}

	stats, err := h.Svc.Stats(c.Request().Context(), user, id)
	if err != nil {
		return httpError(c, "project_stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *ProjectHTTP) AddMember(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "member_add", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "member_add", err)
	}
	var req transport.AddMemberRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "member_add", err)
	}

	m, err := h.Svc.AddMember(c.Request().Context(), user, id, req)
	if err != nil {
		return httpError(c, "member_add", err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *ProjectHTTP) RemoveMember(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "member_remove", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "member_remove", err)
	}
	memberID, err := idParam(c, "user_id")
	if err != nil {
		return httpError(c, "member_remove", err)
	}

	if err := h.Svc.RemoveMember(c.Request().Context(), user, id, memberID); err != nil {
		return httpError(c, "member_remove", err)
	}
	return c.NoContent(http.StatusNoContent)
}
