// Package credential implements the OAuth credential gateway: it exchanges
// authorization codes for tokens and owns the persisted credential records.
package credential

import (
	"context"
	"log/slog"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/conciergehq/concierge/plugin/ai/timeout"
	"github.com/conciergehq/concierge/store"
)

// ProviderGoogle is the provider key for Google credentials.
const ProviderGoogle = "google"

// CredentialStore is the persistence surface the gateway needs.
type CredentialStore interface {
	UpsertCredential(ctx context.Context, upsert *store.UpsertCredential) (*store.Credential, error)
	GetCredential(ctx context.Context, find *store.FindCredential) (*store.Credential, error)
}

// ExchangeError reports a failed authorization-code exchange. The reason is
// a short machine-readable code suitable for the redirect error channel.
type ExchangeError struct {
	Reason string
	Cause  error
}

func (e *ExchangeError) Error() string {
	if e.Cause != nil {
		return "auth exchange failed (" + e.Reason + "): " + e.Cause.Error()
	}
	return "auth exchange failed (" + e.Reason + ")"
}

func (e *ExchangeError) Unwrap() error {
	return e.Cause
}

// Gateway exchanges authorization codes and persists per-user credentials.
// Tokens never leave this component except through GetCredential, whose
// callers treat them as opaque bearer material.
type Gateway struct {
	oauthConfig *oauth2.Config
	store       CredentialStore
	logger      *slog.Logger
}

// NewGateway creates a new credential gateway for the Google provider.
func NewGateway(clientID, clientSecret, redirectURL string, credentialStore CredentialStore, logger *slog.Logger) *Gateway {
	return &Gateway{
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
		store:  credentialStore,
		logger: logger,
	}
}

// NewState returns a fresh opaque state token for the sign-in redirect.
func NewState() string {
	return shortuuid.New()
}

// AuthCodeURL returns the provider consent URL. Offline access plus forced
// consent guarantee a refresh token on every approval.
func (g *Gateway) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode exchanges an authorization code for tokens and upserts the
// credential record for (userID, google). Re-running the exchange for the
// same user replaces the stored tokens; it never duplicates the record.
func (g *Gateway) ExchangeCode(ctx context.Context, userID, code string) (*store.Credential, error) {
	exchangeCtx, cancel := context.WithTimeout(ctx, timeout.ExchangeTimeout)
	defer cancel()

	token, err := g.oauthConfig.Exchange(exchangeCtx, code)
	if err != nil {
		g.logger.Warn("authorization code exchange failed", "user_id", userID, "error", err)
		return nil, &ExchangeError{Reason: "token_exchange_failed", Cause: err}
	}

	credential, err := g.store.UpsertCredential(ctx, &store.UpsertCredential{
		UserID:       userID,
		Provider:     ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.Unix(),
	})
	if err != nil {
		g.logger.Error("failed to persist credential", "user_id", userID, "error", err)
		return nil, &ExchangeError{Reason: "credential_save_failed", Cause: err}
	}

	g.logger.Info("credential stored", "user_id", userID, "provider", ProviderGoogle)
	return credential, nil
}

// Get returns the stored credential for (userID, google), or nil when the
// user has not connected the provider. Absence is not an error.
func (g *Gateway) Get(ctx context.Context, userID string) (*store.Credential, error) {
	return g.store.GetCredential(ctx, &store.FindCredential{
		UserID:   userID,
		Provider: ProviderGoogle,
	})
}
