package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	name   string
	result *Result
	err    error
	panics bool
	calls  int
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) Handle(_ context.Context, _ *Request) (*Result, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.result, s.err
}

func newTestRouter(t *testing.T) (*Router, *stubAgent, *stubAgent, *stubAgent) {
	t.Helper()

	fallback := &stubAgent{name: "general", result: TextResult("general reply")}
	calendarStub := &stubAgent{name: "calendar", result: TextResult("calendar reply")}
	emailStub := &stubAgent{name: "email", result: TextResult("email reply")}

	router, err := NewRouter(fallback, testLogger())
	require.NoError(t, err)
	require.NoError(t, router.Register("calendar", []string{"calendar", "meeting", "schedule", "appointment"}, calendarStub))
	require.NoError(t, router.Register("email", []string{"email", "inbox"}, emailStub))

	return router, fallback, calendarStub, emailStub
}

func TestRouterResolve(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"calendar keyword", "what's on my calendar today", "calendar"},
		{"meeting keyword", "book a meeting with Sam", "calendar"},
		{"schedule keyword", "schedule lunch tomorrow", "calendar"},
		{"appointment keyword", "do I have any appointment this week", "calendar"},
		{"uppercase keyword", "SCHEDULE a sync", "calendar"},
		{"mixed case keyword", "Check my CaLeNdAr", "calendar"},
		{"keyword inside word", "reschedule my flight", "calendar"},
		{"email keyword", "check my email please", "email"},
		{"inbox keyword", "anything new in my inbox", "email"},
		{"calendar beats email on overlap", "email me my meeting notes", "calendar"},
		{"no keyword falls back", "tell me a joke", "general"},
		{"empty-ish command falls back", "   hi   ", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, router.Resolve(tt.command).Name())
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	t.Run("routes to matched agent", func(t *testing.T) {
		router, fallback, calendarStub, _ := newTestRouter(t)

		result, err := router.Dispatch(context.Background(), &Request{UserID: "u1", Command: "schedule a call"})
		require.NoError(t, err)
		assert.Equal(t, "calendar reply", result.Text)
		assert.Equal(t, 1, calendarStub.calls)
		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("falls back for unmatched command", func(t *testing.T) {
		router, fallback, _, _ := newTestRouter(t)

		result, err := router.Dispatch(context.Background(), &Request{UserID: "u1", Command: "what is Go"})
		require.NoError(t, err)
		assert.Equal(t, "general reply", result.Text)
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("rejects empty command", func(t *testing.T) {
		router, _, _, _ := newTestRouter(t)

		_, err := router.Dispatch(context.Background(), &Request{UserID: "u1", Command: "   "})
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInvalidArgument))
	})

	t.Run("rejects nil request", func(t *testing.T) {
		router, _, _, _ := newTestRouter(t)

		_, err := router.Dispatch(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInvalidArgument))
	})

	t.Run("wraps agent failure as internal", func(t *testing.T) {
		fallback := &stubAgent{name: "general", err: NewError(CodeLLMUnavailable, "down", nil)}
		router, err := NewRouter(fallback, testLogger())
		require.NoError(t, err)

		_, err = router.Dispatch(context.Background(), &Request{UserID: "u1", Command: "hello"})
		require.Error(t, err)
		assert.True(t, IsCode(err, CodeInternal))
	})

	t.Run("recovers from agent panic", func(t *testing.T) {
		fallback := &stubAgent{name: "general", panics: true}
		router, err := NewRouter(fallback, testLogger())
		require.NoError(t, err)

		result, err := router.Dispatch(context.Background(), &Request{UserID: "u1", Command: "hello"})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsCode(err, CodeInternal))
	})
}

func TestRouterRegister(t *testing.T) {
	fallback := &stubAgent{name: "general"}
	router, err := NewRouter(fallback, testLogger())
	require.NoError(t, err)

	require.NoError(t, router.Register("calendar", []string{"calendar"}, &stubAgent{name: "calendar"}))

	assert.Error(t, router.Register("calendar", []string{"meeting"}, &stubAgent{name: "calendar"}))
	assert.Error(t, router.Register("", []string{"x"}, &stubAgent{name: "x"}))
	assert.Error(t, router.Register("email", nil, &stubAgent{name: "email"}))
	assert.Error(t, router.Register("email", []string{"email"}, nil))
}

func TestRouterDomains(t *testing.T) {
	router, _, _, _ := newTestRouter(t)
	assert.Equal(t, []string{"calendar", "email"}, router.Domains())
}

func TestNewRouterRequiresFallback(t *testing.T) {
	_, err := NewRouter(nil, testLogger())
	assert.Error(t, err)
}
