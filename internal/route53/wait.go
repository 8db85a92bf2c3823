package route53

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// WaitState is the waiter's view of a submitted change.
type WaitState string

const (
	WaitPending  WaitState = "pending"
	WaitInSync   WaitState = "insync"
	WaitTimedOut WaitState = "timedout"
)

// WaiterConfig bounds the propagation poll loop. The poll interval is a
// fixed pace independent of the caller's timeout.
type WaiterConfig struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

// DefaultWaiterConfig polls every 5 seconds for up to 5 minutes.
func DefaultWaiterConfig() WaiterConfig {
	return WaiterConfig{
		PollInterval: 5 * time.Second,
		Timeout:      300 * time.Second,
	}
}

// Waiter blocks until a submitted change reports INSYNC or the timeout
// elapses. States: pending -> insync on a synchronized status report,
// pending -> timedout when the deadline passes.
type Waiter struct {
	client *Client
	cfg    WaiterConfig

	// injectable for tests
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewWaiter wires a waiter to a client with explicit configuration.
func NewWaiter(client *Client, cfg WaiterConfig) *Waiter {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultWaiterConfig().PollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultWaiterConfig().Timeout
	}
	return &Waiter{client: client, cfg: cfg, sleep: sleepContext, now: time.Now}
}

// Wait polls the change status until it reaches INSYNC. A deadline breach is
// ErrWaitTimeout, surfaced distinctly from submission failure because the
// change may still converge after the caller stops watching. Caller
// cancellation propagates as the context's own error.
func (w *Waiter) Wait(ctx context.Context, handle *ChangeHandle) error {
	if handle == nil {
		return errors.New("nil change handle")
	}
	deadline := w.now().Add(w.cfg.Timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	for {
		status, err := w.client.changeStatus(ctx, handle)
		switch {
		case err == nil && status == types.ChangeStatusInsync:
			return nil
		case err != nil && errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("%w: change %s", ErrWaitTimeout, handle.ID)
		case err != nil && !isTransient(err):
			return err
		}

		// Deadline is tracked against the injected clock so the poll loop,
		// not just the transport, observes the timeout.
		if !w.now().Before(deadline) {
			return fmt.Errorf("%w: change %s", ErrWaitTimeout, handle.ID)
		}
		if err := w.sleep(ctx, w.cfg.PollInterval); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: change %s", ErrWaitTimeout, handle.ID)
			}
			return err
		}
	}
}
