package agent

import (
	"context"
	"io"
	"log/slog"

	"github.com/conciergehq/concierge/server/ai"
)

// fakeLLM is a scripted CompletionService for tests.
type fakeLLM struct {
	chatResponse string
	chatErr      error
	jsonResponse string
	jsonErr      error

	chatCalls int
	jsonCalls int
}

func (f *fakeLLM) Chat(_ context.Context, _ []ai.Message) (string, error) {
	f.chatCalls++
	return f.chatResponse, f.chatErr
}

func (f *fakeLLM) ChatJSON(_ context.Context, _ []ai.Message) (string, error) {
	f.jsonCalls++
	return f.jsonResponse, f.jsonErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
