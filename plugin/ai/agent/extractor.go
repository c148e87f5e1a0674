package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/conciergehq/concierge/plugin/ai/timeout"
	"github.com/conciergehq/concierge/plugin/calendar"
	"github.com/conciergehq/concierge/server/ai"
)

// DetailExtractor turns free text into a structured event draft with a
// single JSON-mode LLM call.
type DetailExtractor struct {
	llm    ai.CompletionService
	logger *slog.Logger
}

// NewDetailExtractor creates a new detail extractor.
func NewDetailExtractor(llm ai.CompletionService, logger *slog.Logger) *DetailExtractor {
	return &DetailExtractor{llm: llm, logger: logger}
}

// eventDetails is the expected JSON structure from the LLM.
type eventDetails struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// Extract parses the command into an EventDraft. The system prompt embeds
// now so relative phrases resolve against the request time. A parse failure,
// a missing required field or a non-positive duration yields a
// CodeExtractionFailed error; the caller must not reach the provider then.
func (e *DetailExtractor) Extract(ctx context.Context, command string, now time.Time) (*calendar.EventDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout.ExtractTimeout)
	defer cancel()

	response, err := e.llm.ChatJSON(ctx, []ai.Message{
		ai.SystemPrompt(fmt.Sprintf(detailsSystemPromptFormat, now.Format(time.RFC3339))),
		ai.UserMessage(command),
	})
	if err != nil {
		return nil, NewError(CodeExtractionFailed, "detail extraction call failed", err)
	}

	details := eventDetails{}
	if err := json.Unmarshal([]byte(stripJSONFence(response)), &details); err != nil {
		e.logger.Warn("extractor returned unparseable JSON",
			"output", truncateString(response, timeout.MaxTruncateLength))
		return nil, NewError(CodeExtractionFailed, "unparseable event details", err)
	}

	if details.Summary == "" || details.StartTime == "" || details.EndTime == "" {
		return nil, NewError(CodeExtractionFailed, "missing required event field", nil)
	}

	startTime, err := time.Parse(time.RFC3339, details.StartTime)
	if err != nil {
		return nil, NewError(CodeExtractionFailed, "invalid start time", err)
	}
	endTime, err := time.Parse(time.RFC3339, details.EndTime)
	if err != nil {
		return nil, NewError(CodeExtractionFailed, "invalid end time", err)
	}
	if !startTime.Before(endTime) {
		return nil, NewError(CodeExtractionFailed, "start time is not before end time", nil)
	}

	return &calendar.EventDraft{
		Summary:     details.Summary,
		Description: details.Description,
		StartTime:   startTime,
		EndTime:     endTime,
	}, nil
}

// stripJSONFence removes a surrounding markdown code fence if the model
// wrapped its JSON in one.
func stripJSONFence(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}
	lines := strings.Split(response, "\n")
	var jsonLines []string
	inJSON := false
	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inJSON = !inJSON
			continue
		}
		if inJSON {
			jsonLines = append(jsonLines, line)
		}
	}
	return strings.Join(jsonLines, "\n")
}
