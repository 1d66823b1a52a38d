package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/transport"
	"github.com/Skotchmaster/taskhub/internal/util"
)

type TaskHTTP struct {
	Svc *service.TaskService
}

type page[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Items []T   `json:"items"`
}

func (h *TaskHTTP) Create(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "task_create", err)
	}
	projectID, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "task_create", err)
	}
	var req transport.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "task_create", err)
	}

	task, err := h.Svc.CreateTask(c.Request().Context(), user, projectID, req)
	if err != nil {
		return httpError(c, "task_create", err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHTTP) List(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "task_list", err)
	}
	projectID, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "task_list", err)
	}
	pageNum := intQuery(c, "page", 1)
	size := intQuery(c, "size", util.DefaultPageSize)

	total, items, err := h.Svc.ListTasks(c.Request().Context(), user, projectID, pageNum, size)
	if err != nil {
		return httpError(c, "task_list", err)
	}
	_, size = util.Calculate(pageNum, size)
	return c.JSON(http.StatusOK, page[transport.TaskListItem]{Total: total, Page: max(pageNum, 1), Size: size, Items: items})
}

func (h *TaskHTTP) Search(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "task_search", err)
	}
	projectID, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "task_search", err)
	}
	pageNum := intQuery(c, "page", 1)
	size := intQuery(c, "size", util.DefaultPageSize)

	total, docs, err := h.Svc.SearchTasks(c.Request().Context(), user, projectID, c.QueryParam("q"), pageNum, size)
	if err != nil {
		return httpError(c, "task_search", err)
	}
	_, size = util.Calculate(pageNum, size)
	return c.JSON(http.StatusOK, page[transport.TaskDocument]{Total: total, Page: max(pageNum, 1), Size: size, Items: docs})
}

func (h *TaskHTTP) Get(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "task_get", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "task_get", err)
	}

	task, err := h.Svc.GetTask(c.Request().Context(), user, id)
	if err != nil {
		return httpError(c, "task_get", err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Update(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "task_update", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "task_update", err)
	}
	var req transport.PatchTaskRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "task_update", err)
	}

	task, err := h.Svc.UpdateTask(c.Request().Context(), user, id, req)
	if err != nil {
		return httpError(c, "task_update", err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) Delete(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "task_delete", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "task_delete", err)
	}

	if err := h.Svc.DeleteTask(c.Request().Context(), user, id); err != nil {
		return httpError(c, "task_delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHTTP) AddComment(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "comment_add", err)
	}
	taskID, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "comment_add", err)
	}
	var req transport.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "comment_add", err)
	}

	comment, err := h.Svc.AddComment(c.Request().Context(), user, taskID, req)
	if err != nil {
		return httpError(c, "comment_add", err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *TaskHTTP) ListComments(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "comment_list", err)
	}
	taskID, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "comment_list", err)
	}

	comments, err := h.Svc.ListComments(c.Request().Context(), user, taskID)
	if err != nil {
		return httpError(c, "comment_list", err)
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *TaskHTTP) DeleteComment(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "comment_delete", err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "comment_delete", err)
	}

	if err := h.Svc.DeleteComment(c.Request().Context(), user, id); err != nil {
		return httpError(c, "comment_delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHTTP) AddTag(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return httpError(c, "tag_add", err)
	}
	taskID, err := idParam(c, "id")
	if err != nil {
		return httpError(c, "tag_add", err)
	}
	var req transport.AddTagRequest
	if err := bind(c, &req); err != nil {
		return httpError(c, "tag_add", err)
	}

	task, err := h.Svc.AddTag(c.Request().Context(), user, taskID, req)
	if err != nil {
		return httpError(c, "tag_add", err)
	}
	return c.JSON(http.StatusOK, task)
}
