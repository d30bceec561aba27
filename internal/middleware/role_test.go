package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRole(t *testing.T, role interface{}, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole_AllowsListedRole(t *testing.T) {
	rec := runWithRole(t, "NURSE", RequireRole("DOCTOR", "NURSE"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_RejectsUnlistedRole(t *testing.T) {
	rec := runWithRole(t, "NURSE", RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_RejectsMissingRole(t *testing.T) {
	rec := runWithRole(t, nil, RequireRole("DOCTOR"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_RejectsNonStringRole(t *testing.T) {
	rec := runWithRole(t, 7, RequireRole("DOCTOR"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
