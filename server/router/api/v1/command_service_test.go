package v1

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conciergehq/concierge/internal/profile"
	"github.com/conciergehq/concierge/plugin/ai/agent"
	"github.com/conciergehq/concierge/server/credential"
)

type stubAgent struct {
	name       string
	result     *agent.Result
	err        error
	lastUserID string
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Handle(_ context.Context, request *agent.Request) (*agent.Result, error) {
	s.lastUserID = request.UserID
	return s.result, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, fallback agent.Agent) *APIV1Service {
	t.Helper()

	router, err := agent.NewRouter(fallback, testLogger())
	require.NoError(t, err)

	testProfile := &profile.Profile{
		Mode:          "prod",
		InstanceURL:   "http://localhost:8081",
		DefaultUserID: "default",
	}
	gateway := credential.NewGateway("client-id", "client-secret",
		"http://localhost:8081/auth/google/callback", nil, testLogger())

	return NewAPIV1Service(testProfile, router, gateway, testLogger())
}

func postCommand(service *APIV1Service, body string, headers map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	_ = service.handleCommand(e.NewContext(req, rec))
	return rec
}

func TestHandleCommand(t *testing.T) {
	t.Run("answers with the agent result", func(t *testing.T) {
		fallback := &stubAgent{name: "general", result: agent.TextResult("hello there")}
		service := newTestService(t, fallback)

		rec := postCommand(service, `{"prompt":"say hello"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"response":"hello there"}`, rec.Body.String())
		assert.Equal(t, "default", fallback.lastUserID)
	})

	t.Run("honors the user header", func(t *testing.T) {
		fallback := &stubAgent{name: "general", result: agent.TextResult("ok")}
		service := newTestService(t, fallback)

		rec := postCommand(service, `{"prompt":"say hello"}`, map[string]string{userIDHeader: "u42"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u42", fallback.lastUserID)
	})

	t.Run("rejects a missing prompt", func(t *testing.T) {
		service := newTestService(t, &stubAgent{name: "general"})

		for _, body := range []string{`{}`, `{"prompt":"   "}`, `not json`} {
			rec := postCommand(service, body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Prompt is required"}`, rec.Body.String())
		}
	})

	t.Run("throttles a burst with Retry-After", func(t *testing.T) {
		fallback := &stubAgent{name: "general", result: agent.TextResult("ok")}
		service := newTestService(t, fallback)

		var rec *httptest.ResponseRecorder
		for i := 0; i < 10; i++ {
			rec = postCommand(service, `{"prompt":"say hello"}`, nil)
			if rec.Code == http.StatusTooManyRequests {
				break
			}
		}

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())

		retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, retryAfter, 1)
	})

	t.Run("hides agent failures behind a generic error", func(t *testing.T) {
		fallback := &stubAgent{name: "general", err: agent.NewError(agent.CodeLLMUnavailable, "llm down", nil)}
		service := newTestService(t, fallback)

		rec := postCommand(service, `{"prompt":"say hello"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"An internal server error occurred."}`, rec.Body.String())
	})
}

func TestHandleStatus(t *testing.T) {
	fallback := &stubAgent{name: "general", result: agent.TextResult("ok")}
	service := newTestService(t, fallback)

	postCommand(service, `{"prompt":"say hello"}`, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, service.handleStatus(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"general"`)
	assert.Contains(t, rec.Body.String(), `"requestTotal":1`)
}
