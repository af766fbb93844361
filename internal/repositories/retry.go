package repositories

import (
	"context"
	"errors"
	"time"

	"kriya/internal/apperr"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds every store call with a per-attempt timeout and retries
// transient failures with exponential backoff.
type Policy struct {
	Timeout         time.Duration
	MaxRetries      uint
	InitialInterval time.Duration
}

// DefaultPolicy is used when a repository is built without one.
var DefaultPolicy = Policy{
	Timeout:         5 * time.Second,
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
}

// retryable reports whether err is worth another attempt. Classified domain
// errors and cancellation of the caller's context are final.
func retryable(err error) bool {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.KindStorage {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

// do runs op under p. The returned error is the last one op produced.
func do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}

	return backoff.Retry(ctx, func() (T, error) {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		}
		defer cancel()

		v, err := op(attemptCtx)
		if err != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(p.MaxRetries+1))
}

// exec is do for operations without a result.
func exec(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
