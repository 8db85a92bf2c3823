package route53

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/smithy-go"
)

// Outcome distinguishes how a planned mutation concluded. "Already exists
// with identical content" is idempotent convergence, not a failure, and is
// reported as its own variant instead of being reinterpreted from an error.
type Outcome string

const (
	OutcomeApplied        Outcome = "applied"
	OutcomeNoOpIdempotent Outcome = "noop-idempotent"
	OutcomeFailed         Outcome = "failed"
)

// ExecutorConfig bounds the retry policy. No package-level state: callers
// pass configuration into the constructor.
type ExecutorConfig struct {
	// MaxAttempts caps submission attempts, transient retries included.
	MaxAttempts int
	// BaseDelay seeds the jittered exponential backoff.
	BaseDelay time.Duration
	// MaxDelay caps a single backoff sleep.
	MaxDelay time.Duration
}

// DefaultExecutorConfig mirrors the provider's recommended pacing for
// change-batch submission.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxAttempts: 10,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
	}
}

// Executor submits a planned mutation to the change API, retrying transient
// provider errors with jittered exponential backoff. Retries never change
// the verb and never cross into other components.
type Executor struct {
	client *Client
	cfg    ExecutorConfig

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor wires an executor to a client with explicit configuration.
func NewExecutor(client *Client, cfg ExecutorConfig) *Executor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultExecutorConfig().MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultExecutorConfig().BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultExecutorConfig().MaxDelay
	}
	return &Executor{client: client, cfg: cfg, sleep: sleepContext}
}

// Execute submits the plan's single-change batch against the zone. Plans
// with verbs noop and conflict must be handled by the caller and never reach
// the executor.
func (e *Executor) Execute(ctx context.Context, zoneID string, plan *ChangePlan) (*ChangeHandle, Outcome, error) {
	action, err := changeAction(plan.Verb)
	if err != nil {
		return nil, OutcomeFailed, err
	}

	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		handle, err := e.client.submitChange(ctx, zoneID, action, plan.Desired)
		if err == nil {
			return handle, OutcomeApplied, nil
		}
		if isAlreadyExists(err) {
			return nil, OutcomeNoOpIdempotent, nil
		}
		if !isTransient(err) {
			return nil, OutcomeFailed, fmt.Errorf("failed to update records in zone %s: %w", zoneID, err)
		}
		lastErr = err
		if attempt == e.cfg.MaxAttempts {
			break
		}
		if err := e.sleep(ctx, backoffDelay(e.cfg, attempt)); err != nil {
			return nil, OutcomeFailed, err
		}
	}
	return nil, OutcomeFailed, fmt.Errorf("gave up after %d attempts updating zone %s: %w", e.cfg.MaxAttempts, zoneID, lastErr)
}

func changeAction(verb Verb) (types.ChangeAction, error) {
	switch verb {
	case VerbCreate:
		return types.ChangeActionCreate, nil
	case VerbUpsert:
		return types.ChangeActionUpsert, nil
	case VerbDelete:
		return types.ChangeActionDelete, nil
	default:
		return "", fmt.Errorf("verb %q is not executable", verb)
	}
}

// backoffDelay is full-jitter exponential backoff: a uniform draw from
// (0, base*2^(attempt-1)] capped at MaxDelay.
func backoffDelay(cfg ExecutorConfig, attempt int) time.Duration {
	ceiling := cfg.BaseDelay << (attempt - 1)
	if ceiling > cfg.MaxDelay || ceiling <= 0 {
		ceiling = cfg.MaxDelay
	}
	return time.Duration(rand.Int63n(int64(ceiling))) + time.Millisecond
}

// isTransient reports whether the provider error is worth retrying: rate
// limiting, request pacing and server-fault classes. Validation, permission
// and not-found errors are terminal.
func isTransient(err error) bool {
	var throttle *types.ThrottlingException
	if errors.As(err, &throttle) {
		return true
	}
	var prior *types.PriorRequestNotComplete
	if errors.As(err, &prior) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "Throttling", "ThrottlingException", "RequestLimitExceeded", "ServiceUnavailable", "SlowDown", "PriorRequestNotComplete":
			return true
		}
		return apiErr.ErrorFault() == smithy.FaultServer
	}
	return false
}

// isAlreadyExists matches the InvalidChangeBatch the provider returns when a
// CREATE names a record that already exists with identical content.
func isAlreadyExists(err error) bool {
	var batchErr *types.InvalidChangeBatch
	if !errors.As(err, &batchErr) {
		return false
	}
	for _, msg := range batchErr.Messages {
		if strings.Contains(msg, "but it already exists") {
			return true
		}
	}
	if batchErr.ErrorMessage() != "" && strings.Contains(batchErr.ErrorMessage(), "but it already exists") {
		return true
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
