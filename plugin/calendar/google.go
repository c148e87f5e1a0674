package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/conciergehq/concierge/store"
)

const primaryCalendarID = "primary"

// GoogleProvider implements Provider against the Google Calendar API.
type GoogleProvider struct {
	oauthConfig *oauth2.Config
	logger      *slog.Logger
}

// NewGoogleProvider creates a new Google Calendar provider.
func NewGoogleProvider(clientID, clientSecret, redirectURL string, logger *slog.Logger) *GoogleProvider {
	return &GoogleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				calendarapi.CalendarScope,
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		logger: logger,
	}
}

// service builds an authenticated calendar service from a stored credential.
// The oauth2 token source refreshes the access token transparently when the
// stored one has expired.
func (p *GoogleProvider) service(ctx context.Context, credential *store.Credential) (*calendarapi.Service, error) {
	token := &oauth2.Token{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
		Expiry:       time.Unix(credential.ExpiresAt, 0),
	}
	client := p.oauthConfig.Client(ctx, token)
	service, err := calendarapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return service, nil
}

func (p *GoogleProvider) ListUpcoming(ctx context.Context, credential *store.Credential, now time.Time, window time.Duration, maxResults int64) ([]*Event, error) {
	service, err := p.service(ctx, credential)
	if err != nil {
		return nil, err
	}

	timeMin := now.UTC().Format(time.RFC3339)
	timeMax := now.Add(window).UTC().Format(time.RFC3339)

	response, err := service.Events.List(primaryCalendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(timeMin).
		TimeMax(timeMax).
		MaxResults(maxResults).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	p.logger.Debug("fetched events from Google Calendar",
		"count", len(response.Items), "time_min", timeMin, "time_max", timeMax)
	return toEvents(response.Items), nil
}

func (p *GoogleProvider) Create(ctx context.Context, credential *store.Credential, draft *EventDraft) (*CreatedEvent, error) {
	service, err := p.service(ctx, credential)
	if err != nil {
		return nil, err
	}

	event := &calendarapi.Event{
		Summary:     draft.Summary,
		Description: draft.Description,
		Start:       &calendarapi.EventDateTime{DateTime: draft.StartTime.Format(time.RFC3339)},
		End:         &calendarapi.EventDateTime{DateTime: draft.EndTime.Format(time.RFC3339)},
	}

	created, err := service.Events.Insert(primaryCalendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	p.logger.Info("created calendar event", "event_id", created.Id, "summary", created.Summary)
	return &CreatedEvent{
		ID:       created.Id,
		Summary:  created.Summary,
		HTMLLink: created.HtmlLink,
	}, nil
}

// toEvents converts Google Calendar events to the internal Event model.
func toEvents(items []*calendarapi.Event) []*Event {
	events := make([]*Event, 0, len(items))
	for _, item := range items {
		start, end := eventTimes(item)
		events = append(events, &Event{
			ID:      item.Id,
			Summary: item.Summary,
			Start:   start,
			End:     end,
		})
	}
	return events
}

// eventTimes resolves start/end for both timed and all-day events.
func eventTimes(item *calendarapi.Event) (time.Time, time.Time) {
	parse := func(dt *calendarapi.EventDateTime) time.Time {
		if dt == nil {
			return time.Time{}
		}
		if dt.DateTime != "" {
			t, _ := time.Parse(time.RFC3339, dt.DateTime)
			return t
		}
		if dt.Date != "" {
			t, _ := time.Parse("2006-01-02", dt.Date)
			return t
		}
		return time.Time{}
	}
	return parse(item.Start), parse(item.End)
}
