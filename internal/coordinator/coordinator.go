// Package coordinator runs the fallback chain of every domain concurrently and
// owns the resulting per-domain state.
package coordinator

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/logging"
	"dashboardfetcher/internal/metrics"
)

// Pipeline produces the outcome of one domain refresh. *fetcher.Chain
// implements it.
type Pipeline interface {
	Run(ctx context.Context) fetcher.Outcome
}

// Listener is notified each time a domain changes phase. Calls for different
// domains may arrive concurrently and in any order.
type Listener interface {
	OnUpdate(state DomainState)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(DomainState)

// OnUpdate implements Listener
func (f ListenerFunc) OnUpdate(s DomainState) { f(s) }

// Option configures a Coordinator
type Option func(*Coordinator)

// WithListener registers l for state updates
func WithListener(l Listener) Option {
	return func(c *Coordinator) { c.listeners = append(c.listeners, l) }
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// Coordinator manages the concurrent domain pipelines and aggregates results
type Coordinator struct {
	pipelines map[domain.Domain]Pipeline
	order     []domain.Domain
	listeners []Listener
	now       func() time.Time

	mu       sync.RWMutex
	states   map[domain.Domain]DomainState
	inflight map[domain.Domain]chan struct{}
}

// New creates a new Coordinator for the given per-domain pipelines
func New(pipelines map[domain.Domain]Pipeline, opts ...Option) *Coordinator {
	c := &Coordinator{
		pipelines: pipelines,
		now:       time.Now,
		states:    make(map[domain.Domain]DomainState, len(pipelines)),
		inflight:  make(map[domain.Domain]chan struct{}, len(pipelines)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, d := range domain.AllDomains() {
		if _, ok := pipelines[d]; ok {
			c.order = append(c.order, d)
		}
	}
	// unknown domains still refresh, after the known ones
	for d := range pipelines {
		if !slices.Contains(c.order, d) {
			c.order = append(c.order, d)
		}
	}
	return c
}

// Domains returns the configured domains in refresh order
func (c *Coordinator) Domains() []domain.Domain {
	return slices.Clone(c.order)
}

// RefreshAll runs every domain pipeline concurrently and returns the states
// once all have finished. Each domain is published to listeners as soon as it
// completes. Domains already fetching are skipped.
func (c *Coordinator) RefreshAll(ctx context.Context) map[domain.Domain]DomainState {
	_, wait := c.start(ctx, c.order)
	wait()
	return c.Snapshot()
}

// RefreshOne runs the pipeline of d and waits for it. It returns false without
// starting anything when d is unknown or already fetching.
func (c *Coordinator) RefreshOne(ctx context.Context, d domain.Domain) (DomainState, bool) {
	started, wait := c.start(ctx, []domain.Domain{d})
	wait()
	return c.State(d), len(started) == 1
}

// Trigger starts the given domains (all when none are given) in the
// background and returns the ones actually started.
func (c *Coordinator) Trigger(ctx context.Context, domains ...domain.Domain) []domain.Domain {
	if len(domains) == 0 {
		domains = c.order
	}
	started, wait := c.start(ctx, domains)
	go wait()
	return started
}

// Retry returns a closure that re-triggers d in the background. Consumers use
// it to offer a retry action on a failed section. It reports whether a refresh
// was started.
func (c *Coordinator) Retry(ctx context.Context, d domain.Domain) func() bool {
	return func() bool {
		return len(c.Trigger(ctx, d)) == 1
	}
}

// Await blocks until the refresh of d in flight, if any, has published and
// returns the resulting state. It returns immediately when d is not fetching.
func (c *Coordinator) Await(ctx context.Context, d domain.Domain) (DomainState, error) {
	c.mu.RLock()
	done, ok := c.inflight[d]
	c.mu.RUnlock()
	if !ok {
		return c.State(d), nil
	}

	select {
	case <-done:
		return c.State(d), nil
	case <-ctx.Done():
		return c.State(d), ctx.Err()
	}
}

// State returns the current state of d. A domain never refreshed is Idle.
func (c *Coordinator) State(d domain.Domain) DomainState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if s, ok := c.states[d]; ok {
		return s.clone()
	}
	return DomainState{Domain: d, Phase: PhaseIdle}
}

// Snapshot returns a copy of every configured domain's state
func (c *Coordinator) Snapshot() map[domain.Domain]DomainState {
	out := make(map[domain.Domain]DomainState, len(c.order))
	for _, d := range c.order {
		out[d] = c.State(d)
	}
	return out
}

// start marks each idle or updated domain as fetching and launches its
// pipeline. wait blocks until every launched pipeline has published.
func (c *Coordinator) start(ctx context.Context, domains []domain.Domain) ([]domain.Domain, func()) {
	var wg conc.WaitGroup
	var started []domain.Domain

	for _, d := range domains {
		p, ok := c.pipelines[d]
		if !ok {
			logging.Warn().Str("domain", string(d)).Msg("refresh requested for unconfigured domain")
			continue
		}
		if !c.begin(d) {
			metrics.RefreshCoalesced.WithLabelValues(string(d)).Inc()
			logging.Debug().Str("domain", string(d)).Msg("refresh already in flight, coalesced")
			continue
		}

		started = append(started, d)
		wg.Go(func() { c.run(ctx, d, p) })
	}

	return started, wg.Wait
}

// begin moves d to Fetching unless it already is. The previous outcome stays
// visible while the new one is computed.
func (c *Coordinator) begin(d domain.Domain) bool {
	c.mu.Lock()
	s, ok := c.states[d]
	if ok && s.Phase == PhaseFetching {
		c.mu.Unlock()
		return false
	}
	if !ok {
		s = DomainState{Domain: d}
	}
	s.Phase = PhaseFetching
	c.states[d] = s
	c.inflight[d] = make(chan struct{})
	c.mu.Unlock()

	c.notify(s.clone())
	return true
}

// run executes one pipeline. A panic is converted into that domain's failure
// and never reaches sibling domains.
func (c *Coordinator) run(ctx context.Context, d domain.Domain, p Pipeline) {
	var outcome fetcher.Outcome
	var pc panics.Catcher
	pc.Try(func() { outcome = p.Run(ctx) })

	if r := pc.Recovered(); r != nil {
		logging.Error().Str("domain", string(d)).Str("stack", string(r.Stack)).Msgf("pipeline panicked: %v", r.Value)
		outcome = fetcher.Failure(fmt.Errorf("refresh %s: %w", d, r.AsError()))
	}

	c.finish(d, outcome)
}

func (c *Coordinator) finish(d domain.Domain, outcome fetcher.Outcome) {
	now := c.now()
	s := DomainState{
		Domain:      d,
		Phase:       PhaseUpdated,
		Outcome:     outcome,
		LastUpdated: now,
	}

	c.mu.Lock()
	c.states[d] = s
	done := c.inflight[d]
	delete(c.inflight, d)
	c.mu.Unlock()

	label := "failure"
	if outcome.OK() {
		label = string(outcome.Source)
		logging.Info().
			Str("domain", string(d)).
			Str("source", label).
			Str("adapter", outcome.Adapter).
			Int("records", len(outcome.Records)).
			Msg("domain updated")
	} else {
		logging.Error().Str("domain", string(d)).Err(outcome.Err).Msg("domain refresh failed")
	}
	metrics.DomainOutcomes.WithLabelValues(string(d), label).Inc()
	metrics.DomainLastUpdated.WithLabelValues(string(d)).Set(float64(now.Unix()))

	c.notify(s.clone())
	if done != nil {
		close(done)
	}
}

// notify delivers s to every listener. A panicking listener is logged and
// skipped so the phase transition that triggered it still completes.
func (c *Coordinator) notify(s DomainState) {
	for _, l := range c.listeners {
		var pc panics.Catcher
		pc.Try(func() { l.OnUpdate(s) })
		if r := pc.Recovered(); r != nil {
			logging.Error().
				Str("domain", string(s.Domain)).
				Str("phase", string(s.Phase)).
				Str("stack", string(r.Stack)).
				Msgf("listener panicked: %v", r.Value)
		}
	}
}
