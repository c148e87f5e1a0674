package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conciergehq/concierge/plugin/ai/agent"
)

func TestHandleGoogleSignIn(t *testing.T) {
	service := newTestService(t, &stubAgent{name: "general", result: agent.TextResult("ok")})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/signin", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, service.handleGoogleSignIn(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get(echo.HeaderLocation)
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "access_type=offline")
	assert.Contains(t, location, "prompt=consent")

	// The state in the redirect must match the one pinned in the cookie.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Contains(t, location, "state="+cookies[0].Value)
}

func TestHandleGoogleCallback(t *testing.T) {
	t.Run("missing code", func(t *testing.T) {
		service := newTestService(t, &stubAgent{name: "general"})

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, service.handleGoogleCallback(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "http://localhost:8081/?auth=error&details=missing_code", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("state mismatch", func(t *testing.T) {
		service := newTestService(t, &stubAgent{name: "general"})

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "expected"})
		rec := httptest.NewRecorder()
		require.NoError(t, service.handleGoogleCallback(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "http://localhost:8081/?auth=error&details=state_mismatch", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("missing state cookie", func(t *testing.T) {
		service := newTestService(t, &stubAgent{name: "general"})

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=expected", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, service.handleGoogleCallback(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "http://localhost:8081/?auth=error&details=state_mismatch", rec.Header().Get(echo.HeaderLocation))
	})
}
