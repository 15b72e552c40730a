package fetcher

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/logging"
	"dashboardfetcher/internal/metrics"
)

// BreakerConfig controls when a provider's circuit opens
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker; 0 disables breaking
	ConsecutiveFailures uint32
	// Cooldown is how long the breaker stays open before a trial call
	Cooldown time.Duration
}

// DefaultBreakerConfig opens after 5 consecutive failures for 5 minutes
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{ConsecutiveFailures: 5, Cooldown: 5 * time.Minute}
}

type breakerAdapter struct {
	next Adapter
	cb   *gobreaker.CircuitBreaker[[]domain.Record]
}

// WithBreaker protects a live adapter with a circuit breaker.
// A missing credential does not count as a provider failure.
func WithBreaker(a Adapter, cfg BreakerConfig) Adapter {
	if cfg.ConsecutiveFailures == 0 {
		return a
	}

	name := a.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]domain.Record](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || KindOf(err) == KindCredentialMissing
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log := logging.Component("breaker")
			log.Info().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &breakerAdapter{next: a, cb: cb}
}

func (b *breakerAdapter) Name() string { return b.next.Name() }

func (b *breakerAdapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	records, err := b.cb.Execute(func() ([]domain.Record, error) {
		return b.next.Fetch(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, NewCircuitOpenError(b.cb.Name(), err)
	}
	return records, err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
