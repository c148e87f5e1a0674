// Package v1 exposes the HTTP API: the command endpoint and the Google
// authorization flow.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/conciergehq/concierge/internal/profile"
	"github.com/conciergehq/concierge/plugin/ai/agent"
	"github.com/conciergehq/concierge/server/credential"
	"github.com/conciergehq/concierge/server/internal/observability"
	"github.com/conciergehq/concierge/server/middleware"
)

// maxConcurrentCommands bounds in-flight LLM-backed executions so a burst
// cannot exhaust upstream quotas.
const maxConcurrentCommands = 8

type APIV1Service struct {
	Profile *profile.Profile
	Router  *agent.Router
	Gateway *credential.Gateway

	limiter          *middleware.RateLimiter
	commandSemaphore *semaphore.Weighted
	metrics          *observability.Metrics
	logger           *slog.Logger
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(profile *profile.Profile, router *agent.Router, gateway *credential.Gateway, logger *slog.Logger) *APIV1Service {
	return &APIV1Service{
		Profile:          profile,
		Router:           router,
		Gateway:          gateway,
		limiter:          middleware.NewRateLimiter(2, 5), // per user
		commandSemaphore: semaphore.NewWeighted(maxConcurrentCommands),
		metrics:          observability.NewMetrics(),
		logger:           logger,
	}
}

// Register attaches all routes to the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.POST("/api/v1/command", s.handleCommand)
	echoServer.GET("/api/v1/status", s.handleStatus)
	echoServer.GET("/auth/google/signin", s.handleGoogleSignIn)
	echoServer.GET("/auth/google/callback", s.handleGoogleCallback)
}

// handleStatus reports the instance version and per-agent dispatch counters.
func (s *APIV1Service) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"version": s.Profile.Version,
		"mode":    s.Profile.Mode,
		"agents":  s.metrics.Snapshot(),
	})
}
