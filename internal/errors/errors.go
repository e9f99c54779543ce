package errors

import (
	"fmt"
	"strings"
)

// Kind classifies an error for the invoking framework's retry policy.
// Every error that crosses the orchestration boundary carries exactly one Kind.
type Kind int

const (
	// KindFatal means re-running the sequence with the same inputs will fail again
	KindFatal Kind = iota
	// KindRetryable means the failure is transient and the whole sequence may be re-run
	KindRetryable
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindRetryable:
		return "retryable"
	default:
		return "fatal"
	}
}

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Input errors (INPUT-001 to INPUT-099)
	ErrCodeValidation ErrorCode = "INPUT-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeMissingAddress ErrorCode = "CONFIG-001"
	ErrCodeMissingSecrets ErrorCode = "CONFIG-002"

	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthFailed   ErrorCode = "AUTH-001"
	ErrCodeNoToken      ErrorCode = "AUTH-002"
	ErrCodeTokenExpired ErrorCode = "AUTH-003"

	// Remote API errors (API-001 to API-099)
	ErrCodeNotFound         ErrorCode = "API-001"
	ErrCodeConflict         ErrorCode = "API-002"
	ErrCodeRateLimit        ErrorCode = "API-003"
	ErrCodeServer           ErrorCode = "API-004"
	ErrCodeUnexpectedStatus ErrorCode = "API-005"
	ErrCodeNoVersion        ErrorCode = "API-006"

	// Catch-all for errors produced outside the classified paths
	ErrCodeUnexpected ErrorCode = "UNEXPECTED-001"
)

// ActionError is the error type surfaced by every operation in this repository.
// It carries a code for diagnostics and a Kind consumed by the external retry policy.
type ActionError struct {
	Code        ErrorCode
	Kind        Kind
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *ActionError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ActionError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the invoking framework may re-run the whole sequence
func (e *ActionError) Retryable() bool {
	return e.Kind == KindRetryable
}

// New creates a new ActionError
func New(code ErrorCode, kind Kind, message string) *ActionError {
	return &ActionError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new ActionError wrapping an existing error
func Wrap(code ErrorCode, kind Kind, message string, cause error) *ActionError {
	return &ActionError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ActionError) WithSuggestion(suggestion string) *ActionError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}
