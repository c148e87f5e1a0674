package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/conciergehq/concierge/plugin/ai/timeout"
)

// route binds a domain to its keyword set and agent. Routes are matched in
// registration order, so earlier domains take priority on overlap.
type route struct {
	domain   string
	keywords []string
	agent    Agent
}

// Router performs coarse lexical routing among the specialized agents and
// the fallback. Matching is a cheap, deterministic pre-filter: the finer
// read/write distinction inside a domain is delegated to the LLM.
type Router struct {
	routes   []route
	fallback Agent
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewRouter creates a new router with the given fallback agent.
func NewRouter(fallback Agent, logger *slog.Logger) (*Router, error) {
	if fallback == nil {
		return nil, fmt.Errorf("fallback agent cannot be nil")
	}

	return &Router{
		fallback: fallback,
		logger:   logger,
	}, nil
}

// Register appends a domain to the routing table. Keywords are matched
// case-insensitively as substrings of the command.
func (r *Router) Register(domain string, keywords []string, agent Agent) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if len(keywords) == 0 {
		return fmt.Errorf("keywords cannot be empty")
	}
	if agent == nil {
		return fmt.Errorf("agent cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.routes {
		if existing.domain == domain {
			return fmt.Errorf("domain %s already registered", domain)
		}
	}

	lowered := make([]string, len(keywords))
	for i, keyword := range keywords {
		lowered[i] = strings.ToLower(keyword)
	}
	r.routes = append(r.routes, route{domain: domain, keywords: lowered, agent: agent})
	return nil
}

// Resolve returns the agent for the command. The first route whose keyword
// set matches wins; commands outside every domain go to the fallback.
func (r *Router) Resolve(command string) Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(command)
	for _, candidate := range r.routes {
		for _, keyword := range candidate.keywords {
			if strings.Contains(lowered, keyword) {
				return candidate.agent
			}
		}
	}
	return r.fallback
}

// Dispatch routes the command to its agent and executes it. Expected domain
// outcomes come back as Results; the only error Dispatch returns is an
// internal one, produced when an agent fails or panics unexpectedly. No
// agent failure escapes in any other form.
func (r *Router) Dispatch(ctx context.Context, request *Request) (result *Result, err error) {
	if request == nil || strings.TrimSpace(request.Command) == "" {
		return nil, NewError(CodeInvalidArgument, "command cannot be empty", nil)
	}

	selected := r.Resolve(request.Command)

	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("agent panicked",
				"agent", selected.Name(), "user_id", request.UserID, "panic", recovered)
			result = nil
			err = NewError(CodeInternal, fmt.Sprintf("agent %s panicked", selected.Name()), nil)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout.AgentTimeout)
	defer cancel()

	r.logger.Info("dispatching command",
		"agent", selected.Name(), "user_id", request.UserID,
		"command", truncateString(request.Command, timeout.MaxTruncateLength))

	result, handleErr := selected.Handle(ctx, request)
	if handleErr != nil {
		r.logger.Error("agent execution failed",
			"agent", selected.Name(), "user_id", request.UserID, "error", handleErr)
		return nil, NewError(CodeInternal, fmt.Sprintf("agent %s failed", selected.Name()), handleErr)
	}
	return result, nil
}

// Domains returns the registered domains in priority order.
func (r *Router) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	domains := make([]string, 0, len(r.routes))
	for _, candidate := range r.routes {
		domains = append(domains, candidate.domain)
	}
	return domains
}
