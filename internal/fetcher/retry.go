package fetcher

import (
	"context"
	"fmt"
	"math"
	"time"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/logging"
)

// RetryConfig bounds the attempts made against a single adapter
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultRetryConfig makes 3 attempts, waiting 1s before the second and 2s
// before the third
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2,
	}
}

// Validate checks the config invariants
func (c RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("retry base delay must be >= 0, got %s", c.BaseDelay)
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("retry multiplier must be >= 1, got %v", c.Multiplier)
	}
	return nil
}

// Delay returns the wait before attempt n (n >= 2): BaseDelay * Multiplier^(n-2)
func (c RetryConfig) Delay(attempt int) time.Duration {
	if attempt < 2 {
		return 0
	}
	return time.Duration(float64(c.BaseDelay) * math.Pow(c.Multiplier, float64(attempt-2)))
}

// Sleeper suspends the caller for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the production Sleeper
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry calls invoke up to cfg.MaxAttempts times and returns the last result.
// Non-retryable errors return immediately without consuming the remaining budget.
func Retry[T any](ctx context.Context, cfg RetryConfig, sleep Sleeper, invoke func(ctx context.Context) (T, error)) (T, error) {
	if sleep == nil {
		sleep = ContextSleep
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if serr := sleep(ctx, cfg.Delay(attempt)); serr != nil {
				var zero T
				return zero, NewTimeoutError(serr)
			}
		}

		result, err = invoke(ctx)
		if err == nil || !IsRetryable(err) {
			return result, err
		}

		if attempt < cfg.MaxAttempts {
			logging.Debug().
				Int("attempt", attempt).
				Int("max_attempts", cfg.MaxAttempts).
				Err(err).
				Msg("retrying fetch")
		}
	}

	return result, err
}

type retryingAdapter struct {
	next  Adapter
	cfg   RetryConfig
	sleep Sleeper
}

// WithRetry decorates an adapter with the retry policy
func WithRetry(a Adapter, cfg RetryConfig, sleep Sleeper) Adapter {
	return &retryingAdapter{next: a, cfg: cfg, sleep: sleep}
}

func (r *retryingAdapter) Name() string { return r.next.Name() }

func (r *retryingAdapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	return Retry(ctx, r.cfg, r.sleep, r.next.Fetch)
}
