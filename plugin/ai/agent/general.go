package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/conciergehq/concierge/plugin/ai/timeout"
	"github.com/conciergehq/concierge/server/ai"
)

// MessageNoCompletion is returned when the LLM produces no content.
const MessageNoCompletion = "No response from AI."

const (
	defaultCacheEntries = 256
	defaultCacheTTL     = 5 * time.Minute
)

// GeneralAgent is a stateless pass-through to the LLM with a fixed persona.
// It handles every command outside the specialized domains.
type GeneralAgent struct {
	llm    ai.CompletionService
	cache  *LRUCache
	logger *slog.Logger
}

// NewGeneralAgent creates a new general agent.
func NewGeneralAgent(llm ai.CompletionService, logger *slog.Logger) (*GeneralAgent, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm cannot be nil")
	}

	return &GeneralAgent{
		llm:    llm,
		cache:  NewLRUCache(defaultCacheEntries, defaultCacheTTL),
		logger: logger,
	}, nil
}

// Name returns the agent's domain name.
func (a *GeneralAgent) Name() string {
	return "general"
}

// Handle answers the command verbatim from the LLM.
func (a *GeneralAgent) Handle(ctx context.Context, request *Request) (*Result, error) {
	cacheKey := GenerateCacheKey(a.Name(), request.UserID, request.Command)
	if cached, found := a.cache.Get(cacheKey); found {
		a.logger.Debug("general agent cache hit", "user_id", request.UserID)
		return TextResult(cached), nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout.CompletionTimeout)
	defer cancel()

	response, err := a.llm.Chat(ctx, []ai.Message{
		ai.SystemPrompt(generalSystemPrompt),
		ai.UserMessage(request.Command),
	})
	if err != nil {
		return nil, NewError(CodeLLMUnavailable, "general completion failed", err)
	}
	if response == "" {
		return TextResult(MessageNoCompletion), nil
	}

	a.cache.Set(cacheKey, response)
	return TextResult(response), nil
}
