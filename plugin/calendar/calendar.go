// Package calendar defines the calendar provider contract used by the
// calendar agent, plus the Google implementation.
package calendar

import (
	"context"
	"time"

	"github.com/conciergehq/concierge/store"
)

// Event is a single occurrence on the user's calendar.
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// EventDraft describes an event to be created. Summary, StartTime and
// EndTime are required; the extractor validates them before any provider
// call is made.
type EventDraft struct {
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// CreatedEvent is the provider's acknowledgement of a created event.
type CreatedEvent struct {
	ID       string
	Summary  string
	HTMLLink string
}

// Provider is the calendar API surface the agent needs. Credentials are
// treated as opaque bearer material and never leave the implementation.
type Provider interface {
	// ListUpcoming returns single, expanded occurrences in [now, now+window),
	// sorted by start time and capped at maxResults.
	ListUpcoming(ctx context.Context, credential *store.Credential, now time.Time, window time.Duration, maxResults int64) ([]*Event, error)

	// Create inserts the draft as a new event on the user's primary calendar.
	Create(ctx context.Context, credential *store.Credential, draft *EventDraft) (*CreatedEvent, error)
}
