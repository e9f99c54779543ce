package errors

import (
	"errors"
	"fmt"
)

// IsRetryable reports whether err (or any error it wraps) is tagged Retryable.
// Untagged errors are treated as Fatal.
func IsRetryable(err error) bool {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr.Retryable()
	}
	return false
}

// Classify guarantees the two-valued taxonomy at the orchestration boundary:
// an already-tagged error passes through unchanged, anything else (network
// failures, JSON decode errors, programming mistakes) is wrapped Fatal.
func Classify(err error) *ActionError {
	if err == nil {
		return nil
	}

	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr
	}

	return Wrap(ErrCodeUnexpected, KindFatal, fmt.Sprintf("unexpected error: %v", err), err)
}

// Common error constructors for the failure modes of the removal sequence

// NewValidationError reports the first offending request field
func NewValidationError(field string) *ActionError {
	return New(ErrCodeValidation, KindFatal, fmt.Sprintf("%s is required and must be a non-empty string", field))
}

// NewMissingAddressError reports an unconfigured API base address,
// naming both configuration sources a caller could have used.
func NewMissingAddressError(flagName, envVar string) *ActionError {
	return New(ErrCodeMissingAddress, KindFatal,
		fmt.Sprintf("no API address configured: set the %s flag or the %s environment variable", flagName, envVar)).
		WithSuggestion(fmt.Sprintf("Pass %s https://your-iam-host:9200", flagName)).
		WithSuggestion(fmt.Sprintf("Or export %s in the environment", envVar))
}

// NewMissingSecretsError names both required credential secrets together
// so a single failed run reveals the complete set to configure.
func NewMissingSecretsError(loginVar, passwordVar string) *ActionError {
	return New(ErrCodeMissingSecrets, KindFatal,
		fmt.Sprintf("missing credentials: both %s and %s must be set", loginVar, passwordVar)).
		WithSuggestion("Configure both secrets in the invoking framework's secret store")
}

// NewAuthenticationError creates the 401/403 authentication failure.
// The message deliberately carries no credential material.
func NewAuthenticationError() *ActionError {
	return New(ErrCodeAuthFailed, KindFatal, "invalid username or password")
}

// NewNoTokenError creates the malformed-response error for a 2xx
// authenticate response without a token
func NewNoTokenError() *ActionError {
	return New(ErrCodeNoToken, KindFatal, "no token returned")
}

// NewTokenExpiredError creates the 401 error for token-authenticated calls
func NewTokenExpiredError() *ActionError {
	return New(ErrCodeTokenExpired, KindFatal, "invalid or expired token")
}

// NewGroupNotFoundError creates the 404 error for the group read
func NewGroupNotFoundError(groupID string) *ActionError {
	return New(ErrCodeNotFound, KindFatal, fmt.Sprintf("group not found: %s", groupID))
}

// NewMemberNotFoundError creates the 404 error for the removal call, where
// the server does not distinguish a missing group from a missing user
func NewMemberNotFoundError() *ActionError {
	return New(ErrCodeNotFound, KindFatal, "group or user not found")
}

// NewConflictError creates the 409 optimistic-concurrency error. The group
// version read earlier no longer matches, or the user is not a member.
// Not retried automatically: a fresh run repeats the read and gets a current version.
func NewConflictError() *ActionError {
	return New(ErrCodeConflict, KindFatal, "conflict: user may not be in group, or version mismatch").
		WithSuggestion("Re-run the whole removal to read a fresh group version")
}

// NewRateLimitError creates the 429 error
func NewRateLimitError(operation string) *ActionError {
	return New(ErrCodeRateLimit, KindRetryable, fmt.Sprintf("rate limit exceeded during %s", operation))
}

// NewServerError creates the 5xx error
func NewServerError(operation string, status int) *ActionError {
	return New(ErrCodeServer, KindRetryable, fmt.Sprintf("server error during %s: %d", operation, status))
}

// NewUnexpectedStatusError creates the catch-all for statuses outside the
// classified set. body is expected to be pre-truncated by the caller.
func NewUnexpectedStatusError(operation string, status int, statusText, body string) *ActionError {
	return New(ErrCodeUnexpectedStatus, KindFatal,
		fmt.Sprintf("%s failed with status %d %s: %s", operation, status, statusText, body))
}

// NewNoVersionError creates the malformed-response error for a group
// payload without a version counter
func NewNoVersionError() *ActionError {
	return New(ErrCodeNoVersion, KindFatal, "no version returned")
}
