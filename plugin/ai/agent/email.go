package agent

import (
	"context"
	"log/slog"
)

// MessageEmailNotConnected is returned until an inbox integration exists.
const MessageEmailNotConnected = "Email is not connected yet. I can help with your calendar or general questions in the meantime."

// EmailAgent is a placeholder for the email domain. It shares the Result
// contract so the router can target it; the actual inbox integration lives
// outside this service.
type EmailAgent struct {
	logger *slog.Logger
}

// NewEmailAgent creates a new email agent stub.
func NewEmailAgent(logger *slog.Logger) *EmailAgent {
	return &EmailAgent{logger: logger}
}

// Name returns the agent's domain name.
func (a *EmailAgent) Name() string {
	return "email"
}

// Handle reports that the email capability is unavailable.
func (a *EmailAgent) Handle(_ context.Context, request *Request) (*Result, error) {
	a.logger.Info("email command received without inbox integration", "user_id", request.UserID)
	return TextResult(MessageEmailNotConnected), nil
}
