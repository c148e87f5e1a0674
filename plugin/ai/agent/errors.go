package agent

import "fmt"

// Code classifies agent-layer failures.
type Code string

const (
	// CodeInvalidArgument indicates invalid input parameters.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeAgentNotFound indicates the requested agent domain does not exist.
	CodeAgentNotFound Code = "AGENT_NOT_FOUND"
	// CodeLLMUnavailable indicates the LLM service call failed.
	CodeLLMUnavailable Code = "LLM_UNAVAILABLE"
	// CodeExtractionFailed indicates the LLM did not produce a usable event.
	CodeExtractionFailed Code = "EXTRACTION_FAILED"
	// CodeProviderUnavailable indicates a calendar provider call failed.
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	// CodeInternal indicates an unanticipated failure.
	CodeInternal Code = "INTERNAL"
)

// Error is a coded error for agent operations.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a coded error.
func NewError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// IsCode checks if an error carries a specific code.
func IsCode(err error, code Code) bool {
	if agentErr, ok := err.(*Error); ok {
		return agentErr.Code == code
	}
	return false
}
