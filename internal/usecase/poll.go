package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/domain/config"
)

// ProbeFunc performs one observation.
// done ends the poll successfully; a non-nil error is transient and counts as "not yet".
type ProbeFunc[T any] func(ctx context.Context, attempt int) (value T, done bool, err error)

// WaitFunc is called after every unsuccessful attempt that will be retried
type WaitFunc func(attempt int, elapsed time.Duration)

// PollResult carries the observations of a finished poll
type PollResult[T any] struct {
	Value    T
	Attempts int
	Elapsed  time.Duration
	// LastErr is the most recent transient probe error, if any
	LastErr error
}

var errNotYet = errors.New("condition not met")

// Poll runs probe at fixed intervals until it reports done or the policy budget
// is spent. An attempt budget allows at most MaxAttempts probes; a timeout budget
// probes until Timeout has elapsed, shortening the final sleep so that the last
// probe lands on the deadline. Exhaustion returns domain.ErrPollExhausted,
// cancellation returns the context error.
func Poll[T any](ctx context.Context, policy config.PollPolicy, probe ProbeFunc[T], onWait WaitFunc) (PollResult[T], error) {
	var (
		result PollResult[T]
		done   bool
		start  = time.Now()
	)

	_ = retry.Do(
		func() error {
			result.Attempts++
			value, ok, err := probe(ctx, result.Attempts)
			result.Elapsed = time.Since(start)
			if err != nil {
				result.LastErr = err
			} else {
				result.Value = value
			}
			if ok && err == nil {
				done = true
				return nil
			}
			if exhausted(policy, result.Attempts, result.Elapsed) {
				return retry.Unrecoverable(domain.ErrPollExhausted)
			}
			if onWait != nil {
				onWait(result.Attempts, result.Elapsed)
			}
			return errNotYet
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			return nextDelay(policy, time.Since(start))
		}),
		retry.LastErrorOnly(true),
	)

	result.Elapsed = time.Since(start)
	switch {
	case done:
		return result, nil
	case ctx.Err() != nil:
		return result, ctx.Err()
	default:
		return result, domain.ErrPollExhausted
	}
}

func exhausted(policy config.PollPolicy, attempts int, elapsed time.Duration) bool {
	if policy.Timeout > 0 {
		return elapsed >= policy.Timeout
	}
	return attempts >= policy.MaxAttempts
}

func nextDelay(policy config.PollPolicy, elapsed time.Duration) time.Duration {
	if policy.Timeout > 0 {
		if remaining := policy.Timeout - elapsed; remaining < policy.Interval {
			return max(remaining, 0)
		}
	}
	return policy.Interval
}

// sleep waits for d or until ctx is cancelled
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// reportWait forwards poll progress to the sink. Timeout budgets report elapsed seconds.
func reportWait(ctx context.Context, sink ProgressSink, stage string, policy config.PollPolicy) WaitFunc {
	return func(attempt int, elapsed time.Duration) {
		event := ProgressEvent{Stage: stage, Current: attempt, Total: policy.MaxAttempts}
		if policy.Timeout > 0 {
			event.Current = int(elapsed / time.Second)
			event.Total = int(policy.Timeout / time.Second)
		}
		sink.OnProgress(ctx, event)
	}
}
