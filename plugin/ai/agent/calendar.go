package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/conciergehq/concierge/plugin/ai/timeout"
	"github.com/conciergehq/concierge/plugin/calendar"
	"github.com/conciergehq/concierge/store"
)

// User-facing messages for the calendar agent's terminal states.
const (
	// MessageNotConnected is returned when no credential is on file.
	MessageNotConnected = "Google Calendar not connected."
	// MessageExtractionFailed asks the user to clarify an unusable request.
	MessageExtractionFailed = "I couldn't understand the meeting details."
	// MessageProviderError hides provider failures behind a generic text;
	// the underlying cause is logged, never exposed.
	MessageProviderError = "Error connecting to calendar or processing request."
	// MessageNoEvents is returned for an empty listing window.
	MessageNoEvents = "No upcoming events in the next 7 days."
)

const (
	listWindow     = 7 * 24 * time.Hour
	maxListResults = 20

	// listTimeFormat renders event start times for the listing response.
	listTimeFormat = "Mon, 02 Jan 2006 15:04"
)

// CredentialSource looks up the stored calendar credential for a user.
// A nil credential with a nil error means the user is not connected.
type CredentialSource interface {
	Get(ctx context.Context, userID string) (*store.Credential, error)
}

// CalendarAgent composes the credential source, the two LLM stages and the
// calendar provider into one capability. Per invocation it walks
//
//	no credential          -> not-connected message
//	classify READ          -> list upcoming events
//	classify WRITE         -> extract draft -> create event
//
// with every provider failure collapsing into the generic provider message.
type CalendarAgent struct {
	credentials CredentialSource
	classifier  *IntentClassifier
	extractor   *DetailExtractor
	provider    calendar.Provider
	now         func() time.Time
	logger      *slog.Logger
}

// NewCalendarAgent creates a new calendar agent.
func NewCalendarAgent(
	credentials CredentialSource,
	classifier *IntentClassifier,
	extractor *DetailExtractor,
	provider calendar.Provider,
	logger *slog.Logger,
) (*CalendarAgent, error) {
	if credentials == nil {
		return nil, fmt.Errorf("credential source cannot be nil")
	}
	if classifier == nil || extractor == nil {
		return nil, fmt.Errorf("classifier and extractor cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("calendar provider cannot be nil")
	}

	return &CalendarAgent{
		credentials: credentials,
		classifier:  classifier,
		extractor:   extractor,
		provider:    provider,
		now:         time.Now,
		logger:      logger,
	}, nil
}

// Name returns the agent's domain name.
func (a *CalendarAgent) Name() string {
	return "calendar"
}

// WithClock overrides the agent's clock. Used by tests to pin "now".
func (a *CalendarAgent) WithClock(now func() time.Time) *CalendarAgent {
	a.now = now
	return a
}

// Handle executes one calendar command.
func (a *CalendarAgent) Handle(ctx context.Context, request *Request) (*Result, error) {
	credential, err := a.credentials.Get(ctx, request.UserID)
	if err != nil {
		// Lookup errors and missing records are the same outcome for the
		// user: the calendar is not usable until they reconnect.
		a.logger.Warn("credential lookup failed", "user_id", request.UserID, "error", err)
		return TextResult(MessageNotConnected), nil
	}
	if credential == nil {
		return TextResult(MessageNotConnected), nil
	}

	intent := a.classifier.Classify(ctx, request.Command)
	a.logger.Info("calendar intent classified", "user_id", request.UserID, "intent", string(intent))

	if intent == IntentWrite {
		return a.handleWrite(ctx, request, credential)
	}
	return a.handleRead(ctx, request, credential)
}

// handleRead lists upcoming events in [now, now+7d), capped at 20.
func (a *CalendarAgent) handleRead(ctx context.Context, request *Request, credential *store.Credential) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout.CalendarTimeout)
	defer cancel()

	events, err := a.provider.ListUpcoming(ctx, credential, a.now(), listWindow, maxListResults)
	if err != nil {
		a.logger.Error("failed to list calendar events", "user_id", request.UserID, "error", err)
		return TextResult(MessageProviderError), nil
	}

	if len(events) == 0 {
		return TextResult(MessageNoEvents), nil
	}

	lines := make([]string, 0, len(events))
	for _, event := range events {
		lines = append(lines, fmt.Sprintf("- %s (on %s)", event.Summary, event.Start.Format(listTimeFormat)))
	}
	return TextResult("Here are your upcoming events for the next 7 days:\n" + strings.Join(lines, "\n")), nil
}

// handleWrite extracts an event draft and creates it on the primary calendar.
func (a *CalendarAgent) handleWrite(ctx context.Context, request *Request, credential *store.Credential) (*Result, error) {
	draft, err := a.extractor.Extract(ctx, request.Command, a.now())
	if err != nil {
		a.logger.Info("event extraction failed, asking for clarification",
			"user_id", request.UserID, "error", err)
		return TextResult(MessageExtractionFailed), nil
	}

	createCtx, cancel := context.WithTimeout(ctx, timeout.CalendarTimeout)
	defer cancel()

	created, err := a.provider.Create(createCtx, credential, draft)
	if err != nil {
		a.logger.Error("failed to create calendar event", "user_id", request.UserID, "error", err)
		return TextResult(MessageProviderError), nil
	}

	return TextResult(fmt.Sprintf(
		"✅ Meeting scheduled! I've added %q to your calendar. View it here: %s",
		draft.Summary, created.HTMLLink,
	)), nil
}
