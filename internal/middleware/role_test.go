package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if role != nil {
		c.Set("role", role)
	}
	require.NoError(t, h(c))
	return rec, called
}

func TestRequireRole(t *testing.T) {
	adminOnly := RequireRole("admin")

	t.Run("allowed role passes", func(t *testing.T) {
		rec, called := performWithRole(t, adminOnly, "admin")
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		rec, called := performWithRole(t, adminOnly, "user")
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "forbidden")
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		rec, called := performWithRole(t, adminOnly, nil)
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role of wrong type is forbidden", func(t *testing.T) {
		rec, called := performWithRole(t, adminOnly, 42)
		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		staff := RequireRole("manager", "admin")
		rec, called := performWithRole(t, staff, "manager")
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
