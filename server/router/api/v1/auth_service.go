package v1

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/conciergehq/concierge/server/credential"
)

// stateCookieName carries the OAuth state between signin and callback.
const stateCookieName = "concierge_oauth_state"

// handleGoogleSignIn redirects the browser to the Google consent screen.
// Offline access and forced consent are requested so a refresh token is
// issued on every approval.
func (s *APIV1Service) handleGoogleSignIn(c echo.Context) error {
	state := credential.NewState()
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, s.Gateway.AuthCodeURL(state))
}

// handleGoogleCallback receives the authorization code, exchanges it through
// the credential gateway and redirects to the landing page. The outcome
// travels in query parameters (auth=success | auth=error&details=<reason>),
// not in a response body.
func (s *APIV1Service) handleGoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.Redirect(http.StatusFound, s.landingURL("error", "missing_code"))
	}

	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		return c.Redirect(http.StatusFound, s.landingURL("error", "state_mismatch"))
	}

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		userID = s.Profile.DefaultUserID
	}

	if _, err := s.Gateway.ExchangeCode(c.Request().Context(), userID, code); err != nil {
		reason := "token_exchange_failed"
		var exchangeErr *credential.ExchangeError
		if errors.As(err, &exchangeErr) {
			reason = exchangeErr.Reason
		}
		return c.Redirect(http.StatusFound, s.landingURL("error", reason))
	}

	return c.Redirect(http.StatusFound, s.landingURL("success", ""))
}

// landingURL builds the post-auth redirect target on the instance URL.
func (s *APIV1Service) landingURL(outcome, details string) string {
	target := strings.TrimRight(s.Profile.InstanceURL, "/") + "/?auth=" + outcome
	if details != "" {
		target += "&details=" + url.QueryEscape(details)
	}
	return target
}
