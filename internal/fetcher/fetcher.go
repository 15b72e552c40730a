package fetcher

import (
	"context"

	"dashboardfetcher/internal/domain"
)

// Adapter is the core interface that every data source must implement.
// Each adapter knows how to query one provider for one domain and translate
// the response into normalized records.
type Adapter interface {
	// Name identifies the provider, e.g. "openweather" or "static".
	Name() string

	// Fetch retrieves and normalizes the records. Failures are reported as
	// *FetchError so the retry policy and the chain can classify them.
	Fetch(ctx context.Context) ([]domain.Record, error)
}

// StaticAdapter is implemented by terminal adapters that serve canned content
type StaticAdapter interface {
	Adapter
	Static() bool
}

func isStatic(a Adapter) bool {
	s, ok := a.(StaticAdapter)
	return ok && s.Static()
}

// AdapterFunc turns a function into an Adapter
type AdapterFunc struct {
	AdapterName string
	FetchFunc   func(ctx context.Context) ([]domain.Record, error)
}

// Name implements Adapter
func (f AdapterFunc) Name() string { return f.AdapterName }

// Fetch implements Adapter
func (f AdapterFunc) Fetch(ctx context.Context) ([]domain.Record, error) {
	return f.FetchFunc(ctx)
}
