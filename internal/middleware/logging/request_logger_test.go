package loggingmw

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/logging"
	authmw "github.com/Skotchmaster/taskhub/internal/middleware/auth"
	"github.com/Skotchmaster/taskhub/internal/models"
)

type staticResolver struct{ user *models.User }

func (r staticResolver) Resolve(context.Context, string) (*models.User, error) {
	return r.user, nil
}

func newLoggedEcho(buf *bytes.Buffer) *echo.Echo {
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(buf, "debug")))

	bearer := authmw.NewBearerAuth(staticResolver{user: &models.User{ID: 42, IsActive: true}})
	e.GET("/open", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("handler_ran")
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/me", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, bearer.RequireAuth)
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})
	return e
}

func completionLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry["msg"] == "request_completed" {
			return entry
		}
	}
	t.Fatalf("no request_completed line in %q", buf.String())
	return nil
}

func TestRequestLogger_AddsCallerOnAuthenticatedRoutes(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer token")
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := completionLine(t, &buf)
	assert.EqualValues(t, 42, entry["user_id"])
	assert.EqualValues(t, 200, entry["status"])
	assert.Equal(t, "/me", entry["route"])
	assert.Equal(t, "rid-1", entry["request_id"])
}

func TestRequestLogger_AnonymousRouteHasNoUser(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Contains(t, buf.String(), `"msg":"handler_ran"`)
	entry := completionLine(t, &buf)
	_, hasUser := entry["user_id"]
	assert.False(t, hasUser)
	assert.Equal(t, "INFO", entry["level"])
}

func TestRequestLogger_ServerErrorLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	entry := completionLine(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "boom")
}
