package v1

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/conciergehq/concierge/plugin/ai/agent"
	"github.com/conciergehq/concierge/server/internal/observability"
)

// userIDHeader optionally overrides the configured default user.
const userIDHeader = "X-User-Id"

// CommandRequest is the inbound command payload.
type CommandRequest struct {
	Prompt string `json:"prompt"`
}

// CommandResponse is the success payload.
type CommandResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// ErrorResponse is the generic error payload; it never carries internal detail.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleCommand accepts a free-text command, dispatches it to an agent and
// returns the agent's text.
func (s *APIV1Service) handleCommand(c echo.Context) error {
	request := CommandRequest{}
	if err := c.Bind(&request); err != nil || strings.TrimSpace(request.Prompt) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Prompt is required"})
	}

	userID := c.Request().Header.Get(userIDHeader)
	if userID == "" {
		userID = s.Profile.DefaultUserID
	}

	if !s.limiter.Allow(userID) {
		retryAfter := int(math.Ceil(s.limiter.ReserveDelay(userID).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests"})
	}

	ctx := c.Request().Context()
	if err := s.commandSemaphore.Acquire(ctx, 1); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An internal server error occurred."})
	}
	defer s.commandSemaphore.Release(1)

	agentName := s.Router.Resolve(request.Prompt).Name()
	reqCtx := observability.NewRequestContext(s.logger, agentName, userID)
	ctx = observability.WithRequestContext(ctx, reqCtx)

	result, err := s.Router.Dispatch(ctx, &agent.Request{
		UserID:  userID,
		Command: request.Prompt,
	})
	s.metrics.Record(agentName, reqCtx.Duration(), err != nil)
	if err != nil {
		// Agent failures arrive here only as internal errors; everything
		// expected is already rendered into the result text.
		if agent.IsCode(err, agent.CodeInvalidArgument) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Prompt is required"})
		}
		reqCtx.Error("command dispatch failed", err,
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An internal server error occurred."})
	}

	reqCtx.Info("command handled",
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, CommandResponse{Success: true, Response: result.Text})
}
