package coordinator

import (
	"slices"
	"time"

	"github.com/goccy/go-json"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
)

// Phase is the lifecycle position of one domain
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseFetching Phase = "fetching"
	PhaseUpdated  Phase = "updated"
)

// DomainState is an immutable snapshot of one domain. While a refresh is in
// flight Phase is Fetching and Outcome still holds the previous result.
type DomainState struct {
	Domain      domain.Domain
	Phase       Phase
	Outcome     fetcher.Outcome
	LastUpdated time.Time
}

// HasData reports whether the state carries records to display
func (s DomainState) HasData() bool {
	return s.Outcome.OK() && len(s.Outcome.Records) > 0
}

func (s DomainState) clone() DomainState {
	s.Outcome.Records = slices.Clone(s.Outcome.Records)
	return s
}

type stateJSON struct {
	Domain      domain.Domain     `json:"domain"`
	Phase       Phase             `json:"phase"`
	Source      fetcher.Source    `json:"source,omitempty"`
	Adapter     string            `json:"adapter,omitempty"`
	Records     []domain.Record   `json:"records"`
	Error       string            `json:"error,omitempty"`
	ErrorKind   fetcher.ErrorKind `json:"errorKind,omitempty"`
	LastUpdated *time.Time        `json:"lastUpdated,omitempty"`
}

// MarshalJSON renders the state for API consumers
func (s DomainState) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Domain:  s.Domain,
		Phase:   s.Phase,
		Records: s.Outcome.Records,
	}
	if out.Records == nil {
		out.Records = []domain.Record{}
	}

	if !s.LastUpdated.IsZero() {
		out.LastUpdated = &s.LastUpdated
	}
	// a never-refreshed domain has neither data nor error
	if s.LastUpdated.IsZero() && s.Outcome.Err == nil && s.Outcome.Source == "" {
		return json.Marshal(out)
	}

	if s.Outcome.OK() {
		out.Source = s.Outcome.Source
		out.Adapter = s.Outcome.Adapter
	} else {
		out.Error = s.Outcome.Err.Error()
		out.ErrorKind = fetcher.KindOf(s.Outcome.Err)
	}
	return json.Marshal(out)
}
