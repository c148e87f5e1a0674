// Package agent implements the capability agents and the keyword router
// that dispatches user commands to them.
package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Request is one user command scoped to a single execution.
type Request struct {
	UserID  string
	Command string
}

// ResultKind discriminates the shape of a Result.
type ResultKind string

const (
	// ResultKindText is a plain text response.
	ResultKindText ResultKind = "text"
	// ResultKindList is a structured list response, reserved for agents
	// that return itemized data instead of prose.
	ResultKindList ResultKind = "list"
)

// Result is the uniform agent output. Callers switch on Kind instead of
// inspecting the shape of the value.
type Result struct {
	Kind  ResultKind
	Text  string
	Items []string
}

// TextResult creates a plain text result.
func TextResult(text string) *Result {
	return &Result{Kind: ResultKindText, Text: text}
}

// ListResult creates a structured list result.
func ListResult(items []string) *Result {
	return &Result{Kind: ResultKindList, Items: items}
}

// Agent is the interface all capability agents implement.
type Agent interface {
	// Name returns the agent's domain name.
	Name() string

	// Handle executes one request. Expected domain outcomes (not connected,
	// clarification needed, provider unreachable) come back as Results;
	// a returned error means the agent failed unexpectedly.
	Handle(ctx context.Context, request *Request) (*Result, error)
}

// GenerateCacheKey creates a cache key from agent name, userID and command
// using a SHA256 hash. This keeps keys bounded for long inputs.
func GenerateCacheKey(agentName, userID, command string) string {
	hash := sha256.Sum256([]byte(command))
	hashStr := hex.EncodeToString(hash[:])
	return fmt.Sprintf("%s:%s:%s", agentName, userID, hashStr[:16])
}

// Compile-time interface compliance checks.
var (
	_ Agent = (*CalendarAgent)(nil)
	_ Agent = (*GeneralAgent)(nil)
	_ Agent = (*EmailAgent)(nil)
)
