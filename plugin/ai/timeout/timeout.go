// Package timeout defines centralized timeout constants for AI and provider operations.
package timeout

import "time"

const (
	// AgentTimeout is the timeout for a full agent execution.
	AgentTimeout = 2 * time.Minute

	// ClassifyTimeout is the timeout for one intent classification call.
	ClassifyTimeout = 30 * time.Second

	// ExtractTimeout is the timeout for one detail extraction call.
	ExtractTimeout = 30 * time.Second

	// CompletionTimeout is the timeout for a general completion call.
	CompletionTimeout = 60 * time.Second

	// CalendarTimeout is the timeout for one calendar provider call.
	CalendarTimeout = 30 * time.Second

	// ExchangeTimeout is the timeout for an authorization-code exchange.
	ExchangeTimeout = 30 * time.Second

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	MaxTruncateLength = 200
)
