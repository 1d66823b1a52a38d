package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler    *AuthHTTP
	ProjectHandler *ProjectHTTP
	TaskHandler    *TaskHTTP
	RequireAuth    echo.MiddlewareFunc
	Ready          Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready.Ping(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)

	private := v1.Group("", d.RequireAuth)

	private.GET("/users/me", d.AuthHandler.Me)

	projects := private.Group("/projects")
	projects.POST("", d.ProjectHandler.Create)
	projects.GET("", d.ProjectHandler.List)
	projects.GET("/:id", d.ProjectHandler.Get)
	projects.PUT("/:id", d.ProjectHandler.Update)
	projects.DELETE("/:id", d.ProjectHandler.Delete)
	projects.GET("/:id/stats", d.ProjectHandler.Stats)
	projects.POST("/:id/members", d.ProjectHandler.AddMember)
	projects.DELETE("/:id/members/:user_id", d.ProjectHandler.RemoveMember)
	projects.POST("/:id/tasks", d.TaskHandler.Create)
	projects.GET("/:id/tasks", d.TaskHandler.List)
	projects.GET("/:id/tasks/search", d.TaskHandler.Search)

	tasks := private.Group("/tasks")
	tasks.GET("/:id", d.TaskHandler.Get)
	tasks.PUT("/:id", d.TaskHandler.Update)
	tasks.DELETE("/:id", d.TaskHandler.Delete)
	tasks.POST("/:id/comments", d.TaskHandler.AddComment)
	tasks.GET("/:id/comments", d.TaskHandler.ListComments)
	tasks.POST("/:id/tags", d.TaskHandler.AddTag)

	private.DELETE("/comments/:id", d.TaskHandler.DeleteComment)
}
