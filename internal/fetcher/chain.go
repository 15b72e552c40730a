package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/logging"
	"dashboardfetcher/internal/metrics"
)

// AttemptError records one adapter failure inside a chain run
type AttemptError struct {
	Adapter string
	Err     error
}

// ChainError is returned when every adapter of a chain failed
type ChainError struct {
	Domain   domain.Domain
	Attempts []AttemptError
}

// Error implements the error interface
func (e *ChainError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("no adapters configured for %s", e.Domain)
	}

	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Adapter, a.Err))
	}
	return fmt.Sprintf("all %d adapters failed for %s: %s", len(e.Attempts), e.Domain, strings.Join(parts, "; "))
}

// Unwrap exposes every attempt error to errors.Is and errors.As
func (e *ChainError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// Chain is the ordered list of adapters for one domain: live providers first,
// static content last.
type Chain struct {
	Domain   domain.Domain
	Adapters []Adapter
}

// NewChain creates a chain trying adapters in the given order
func NewChain(d domain.Domain, adapters ...Adapter) *Chain {
	return &Chain{Domain: d, Adapters: adapters}
}

// Run tries each adapter in order and returns the first success.
// Attempts are sequential; a later adapter is only consulted after the previous
// one failed.
func (c *Chain) Run(ctx context.Context) Outcome {
	log := logging.Component("chain")
	var failures []AttemptError

	for i, a := range c.Adapters {
		start := time.Now()
		records, err := attempt(ctx, a)
		static := isStatic(a)
		if err == nil && len(records) == 0 && !static {
			err = NewMalformedError("adapter returned no records")
		}

		metrics.FetchDuration.WithLabelValues(string(c.Domain), a.Name()).Observe(time.Since(start).Seconds())

		if err == nil {
			metrics.FetchAttempts.WithLabelValues(string(c.Domain), a.Name(), "success").Inc()
			source := SourceFallback
			switch {
			case static:
				source = SourceMock
			case i == 0:
				source = SourceLive
			}
			return Success(records, source, a.Name())
		}

		metrics.FetchAttempts.WithLabelValues(string(c.Domain), a.Name(), string(KindOf(err))).Inc()
		log.Warn().
			Str("domain", string(c.Domain)).
			Str("adapter", a.Name()).
			Str("kind", string(KindOf(err))).
			Err(err).
			Msg("adapter failed, trying next source")
		failures = append(failures, AttemptError{Adapter: a.Name(), Err: err})
	}

	return Failure(&ChainError{Domain: c.Domain, Attempts: failures})
}

// attempt shields the chain from adapters that panic
func attempt(ctx context.Context, a Adapter) (records []domain.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = &FetchError{Kind: KindUnknown, Message: fmt.Sprintf("adapter panicked: %v", r)}
		}
	}()
	return a.Fetch(ctx)
}
