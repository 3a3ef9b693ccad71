package trivia

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetrySource is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetrySource struct {
	inner  Source
	config RetryConfig
}

// WithRetry wraps a Source with retry logic.
func WithRetry(s Source, cfg RetryConfig) Source {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetrySource{inner: s, config: cfg}
}

func (r *RetrySource) Categories(ctx context.Context) ([]Category, error) {
	return retry(ctx, r, func(ctx context.Context) ([]Category, error) {
		return r.inner.Categories(ctx)
	})
}

func (r *RetrySource) RequestToken(ctx context.Context) (string, error) {
	return retry(ctx, r, func(ctx context.Context) (string, error) {
		return r.inner.RequestToken(ctx)
	})
}

func (r *RetrySource) Questions(ctx context.Context, req QuestionsRequest) ([]RawQuestion, error) {
	return retry(ctx, r, func(ctx context.Context) ([]RawQuestion, error) {
		return r.inner.Questions(ctx, req)
	})
}

func retry[T any](ctx context.Context, r *RetrySource, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	invalidRetried := false

	for attempt := range r.config.MaxAttempts {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !shouldRetry(err, &invalidRetried) {
			return zero, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return zero, lastErr
}

// shouldRetry determines if an error is transient.
func shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrUnavailable
	if errors.As(err, &unavail) {
		return true
	}

	// A garbled body gets one more chance.
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Bad parameters, token problems and 4xx will not fix themselves.
	return false
}

// backoff computes the wait duration for the given attempt.
func (r *RetrySource) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
