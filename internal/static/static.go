// Package static serves canned dashboard content.
//
// It is the terminal element of every fallback chain: Get never performs I/O and
// always returns the same records for the same domain and rotation key. News and
// listings rotate daily so the page appears to change without external state.
package static

import (
	"context"
	"fmt"
	"time"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
)

// DefaultMaxNews is the number of headlines shown per news section
const DefaultMaxNews = 5

// Provider serves the canned datasets
type Provider struct {
	city    string
	maxNews int
}

// New creates a provider. city labels the canned weather record.
func New(city string, maxNews int) *Provider {
	if maxNews <= 0 {
		maxNews = DefaultMaxNews
	}
	return &Provider{city: city, maxNews: maxNews}
}

// RotationKey is the ordinal day of the year of t
func RotationKey(t time.Time) int {
	return t.YearDay()
}

// Max returns the maximum number of records Get emits for d
func (p *Provider) Max(d domain.Domain) int {
	switch {
	case d.IsNews():
		return p.maxNews
	case d == domain.RealEstate:
		return len(listings)
	case d == domain.Stocks:
		return len(stocks)
	case d == domain.Indices:
		return len(indices)
	case d == domain.Crypto:
		return len(crypto)
	case d == domain.Weather:
		return 1
	default:
		return 0
	}
}

// Get returns the canned records for d. News and listings are rotated by
// rotationKey; an unknown domain yields nil.
func (p *Provider) Get(d domain.Domain, rotationKey int) []domain.Record {
	switch d {
	case domain.Weather:
		return []domain.Record{weather(p.city)}
	case domain.Stocks:
		return rotate(stocks, 0, p.Max(d))
	case domain.Indices:
		return rotate(indices, 0, p.Max(d))
	case domain.Crypto:
		return rotate(crypto, 0, p.Max(d))
	case domain.NewsEconomy:
		return rotate(economyNews, rotationKey, p.Max(d))
	case domain.NewsAI:
		return rotate(aiNews, rotationKey, p.Max(d))
	case domain.NewsGeopolitics:
		return rotate(geopoliticsNews, rotationKey, p.Max(d))
	case domain.RealEstate:
		return rotate(listings, rotationKey, p.Max(d))
	default:
		return nil
	}
}

// rotate emits items[(key+i) mod N] for i < min(N, limit)
func rotate[T domain.Record](items []T, key, limit int) []domain.Record {
	n := len(items)
	if n == 0 {
		return nil
	}
	if limit > n {
		limit = n
	}

	start := ((key % n) + n) % n
	out := make([]domain.Record, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, items[(start+i)%n])
	}
	return out
}

// Adapter exposes the provider as the last element of a fallback chain
type Adapter struct {
	provider *Provider
	domain   domain.Domain
	now      func() time.Time
}

// NewAdapter creates the static adapter for d. now defaults to time.Now.
func NewAdapter(p *Provider, d domain.Domain, now func() time.Time) *Adapter {
	if now == nil {
		now = time.Now
	}
	return &Adapter{provider: p, domain: d, now: now}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string { return "static" }

// Static marks the adapter as canned content
func (a *Adapter) Static() bool { return true }

// Fetch returns the rotated canned records. A domain without a dataset is a
// wiring mistake and is reported as a failure.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	records := a.provider.Get(a.domain, RotationKey(a.now()))
	if len(records) == 0 {
		return nil, fetcher.NewMalformedError(fmt.Sprintf("no static content for %s", a.domain))
	}
	return records, nil
}
