package exitcode

import (
	"errors"
	"os"
	"strings"

	apperrors "github.com/felixgeelhaar/groupctl/internal/errors"
)

// Exit codes for consistent error handling across the CLI.
// The invoking framework keys its retry policy off Retryable.
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates the removal request failed input validation
	ValidationError = 3

	// ConfigError indicates missing base address or credential secrets
	ConfigError = 4

	// AuthError indicates an authentication or token failure
	AuthError = 5

	// NotFoundError indicates the group or user does not exist
	NotFoundError = 6

	// ConflictError indicates an optimistic-concurrency conflict on removal
	ConflictError = 7

	// Retryable indicates a transient failure; the caller may re-run the
	// whole removal sequence
	Retryable = 10

	// Interrupted indicates the run was halted by an external signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var actionErr *apperrors.ActionError
	if errors.As(err, &actionErr) {
		if actionErr.Retryable() {
			return Retryable
		}

		switch actionErr.Code {
		case apperrors.ErrCodeValidation:
			return ValidationError
		case apperrors.ErrCodeMissingAddress, apperrors.ErrCodeMissingSecrets:
			return ConfigError
		case apperrors.ErrCodeAuthFailed, apperrors.ErrCodeNoToken, apperrors.ErrCodeTokenExpired:
			return AuthError
		case apperrors.ErrCodeNotFound:
			return NotFoundError
		case apperrors.ErrCodeConflict:
			return ConflictError
		default:
			return GeneralError
		}
	}

	// Untyped errors come from cobra itself (bad flags, unknown commands)
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "unknown flag") ||
		strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationError:
		return "Invalid removal request"
	case ConfigError:
		return "Missing configuration or secrets"
	case AuthError:
		return "Authentication error"
	case NotFoundError:
		return "Group or user not found"
	case ConflictError:
		return "Group version conflict"
	case Retryable:
		return "Transient failure, safe to re-run"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
