package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/conciergehq/concierge/plugin/ai/timeout"
	"github.com/conciergehq/concierge/server/ai"
)

// Intent is the calendar sub-intent derived per request.
type Intent string

const (
	// IntentRead lists existing events.
	IntentRead Intent = "READ"
	// IntentWrite creates a new event.
	IntentWrite Intent = "WRITE"
)

// IntentClassifier decides whether a calendar command is a read or a write
// with a single LLM call.
type IntentClassifier struct {
	llm    ai.CompletionService
	logger *slog.Logger
}

// NewIntentClassifier creates a new intent classifier.
func NewIntentClassifier(llm ai.CompletionService, logger *slog.Logger) *IntentClassifier {
	return &IntentClassifier{llm: llm, logger: logger}
}

// Classify returns the intent for the command. Ambiguous, malformed or
// failed classifications all resolve to READ: an unparseable answer must
// never risk an unintended write to the user's calendar.
func (c *IntentClassifier) Classify(ctx context.Context, command string) Intent {
	ctx, cancel := context.WithTimeout(ctx, timeout.ClassifyTimeout)
	defer cancel()

	response, err := c.llm.Chat(ctx, []ai.Message{
		ai.SystemPrompt(intentSystemPrompt),
		ai.UserMessage(command),
	})
	if err != nil {
		c.logger.Warn("intent classification failed, defaulting to READ", "error", err)
		return IntentRead
	}

	intent, ok := normalizeIntent(response)
	if !ok {
		c.logger.Warn("unexpected classifier output, defaulting to READ",
			"output", truncateString(response, timeout.MaxTruncateLength))
		return IntentRead
	}
	return intent
}

// normalizeIntent trims and upper-cases the raw classifier output and
// matches it against the literal tokens. Normalization is idempotent.
func normalizeIntent(raw string) (Intent, bool) {
	switch Intent(strings.ToUpper(strings.TrimSpace(raw))) {
	case IntentWrite:
		return IntentWrite, true
	case IntentRead:
		return IntentRead, true
	default:
		return "", false
	}
}
