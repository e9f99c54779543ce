package action

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/groupctl/internal/boundary"
	"github.com/felixgeelhaar/groupctl/internal/config"
	apperrors "github.com/felixgeelhaar/groupctl/internal/errors"
	"github.com/felixgeelhaar/groupctl/internal/log"
)

// State names the current step of the removal sequence
type State string

const (
	StateValidating     State = "validating"
	StateAuthenticating State = "authenticating"
	StateReadingGroup   State = "reading_group"
	StateRemovingMember State = "removing_member"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// defaultStepPause spaces out the three API calls to stay under the remote
// rate limiter. A hint, not a correctness requirement.
const defaultStepPause = 100 * time.Millisecond

// API is the surface of the IAM client the runner consumes. Declared here,
// on the consumer side, so tests can substitute a fake backend.
type API interface {
	Authenticate(ctx context.Context, authMethodID, loginName, password string) (string, error)
	ReadGroup(ctx context.Context, groupID, token string) (*boundary.Group, error)
	RemoveMembers(ctx context.Context, groupID, token string, version int, memberIDs ...string) error
}

// Runner executes one removal sequence. It is single-use per invocation and
// never retries internally; the invoking framework re-runs the whole
// sequence if it chooses to retry.
type Runner struct {
	api    API
	creds  config.Credentials
	logger *log.Logger
	pause  time.Duration
	state  State
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger replaces the default logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithStepPause overrides the inter-step pause, mainly to keep tests fast
func WithStepPause(pause time.Duration) Option {
	return func(r *Runner) {
		r.pause = pause
	}
}

// NewRunner creates a runner over the given API client and credentials
func NewRunner(api API, creds config.Credentials, opts ...Option) *Runner {
	r := &Runner{
		api:    api,
		creds:  creds,
		logger: log.DefaultLogger(),
		pause:  defaultStepPause,
		state:  StateValidating,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the step the runner is in (or stopped in)
func (r *Runner) State() State {
	return r.state
}

// Run executes validate → authenticate → read group → remove member and
// returns the success document. Every returned error carries the
// Retryable|Fatal classification; untagged failures are wrapped Fatal before
// crossing this boundary. Cancellation of ctx surfaces as the context error,
// which the caller turns into a HaltResult.
func (r *Runner) Run(ctx context.Context, req *RemovalRequest) (*RemovalResult, error) {
	logger := r.logger.With("invocation_id", uuid.NewString())

	r.state = StateValidating
	if err := req.Validate(); err != nil {
		return nil, r.fail(logger, err)
	}
	logger = logger.With(
		"group_id", req.GroupID,
		"user_id", req.UserID,
		"auth_method_id", req.AuthMethodID,
	)
	logger.InfoContext(ctx, "removal sequence started")

	r.state = StateAuthenticating
	token, err := r.api.Authenticate(ctx, req.AuthMethodID, r.creds.LoginName, r.creds.Password)
	if err != nil {
		return nil, r.fail(logger, err)
	}
	logger.DebugContext(ctx, "authenticated", "state", string(r.state))

	if err := r.pauseBetweenSteps(ctx); err != nil {
		return nil, r.fail(logger, err)
	}

	r.state = StateReadingGroup
	group, err := r.api.ReadGroup(ctx, req.GroupID, token)
	if err != nil {
		return nil, r.fail(logger, err)
	}
	logger.DebugContext(ctx, "group read", "state", string(r.state), "group_version", group.Version)

	if err := r.pauseBetweenSteps(ctx); err != nil {
		return nil, r.fail(logger, err)
	}

	r.state = StateRemovingMember
	if err := r.api.RemoveMembers(ctx, req.GroupID, token, group.Version, req.UserID); err != nil {
		return nil, r.fail(logger, err)
	}

	r.state = StateDone
	result := &RemovalResult{
		GroupID:      req.GroupID,
		UserID:       req.UserID,
		AuthMethodID: req.AuthMethodID,
		UserRemoved:  true,
		RemovedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	logger.InfoContext(ctx, "member removed", "removed_at", result.RemovedAt)

	return result, nil
}

// fail moves the runner to the terminal Failed state and classifies the error
func (r *Runner) fail(logger *log.Logger, err error) error {
	failedIn := r.state
	r.state = StateFailed
	classified := apperrors.Classify(err)
	logger.WithError(classified).Error("removal sequence failed", "failed_in", string(failedIn))
	return classified
}

// pauseBetweenSteps waits the configured pause, aborting early on cancellation
func (r *Runner) pauseBetweenSteps(ctx context.Context) error {
	if r.pause <= 0 {
		return nil
	}

	timer := time.NewTimer(r.pause)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
