package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API names an upstream provider with its own request budget
type API string

const (
	APIOpenWeather  API = "openweather"
	APINewsAPI      API = "newsapi"
	APIRSS2JSON     API = "rss2json"
	APICoinGecko    API = "coingecko"
	APIEtherscan    API = "etherscan"
	APIAlphaVantage API = "alphavantage"
	APIRentcast     API = "rentcast"
	APILeboncoin    API = "leboncoin"
)

// DefaultLimits are conservative per-provider request rates
func DefaultLimits() map[API]rate.Limit {
	return map[API]rate.Limit{
		// OpenWeatherMap free tier: 60 calls/minute
		APIOpenWeather: rate.Limit(1),
		// NewsAPI developer tier: 100 calls/day, bursts are fine
		APINewsAPI:  rate.Limit(1),
		APIRSS2JSON: rate.Limit(1),
		// CoinGecko public API: ~10-30 calls/minute
		APICoinGecko: rate.Limit(1.0 / 6.0),
		// Etherscan: 5 requests per second
		APIEtherscan: rate.Limit(4),
		// AlphaVantage: 5 requests per minute on free tier = 1 request every 12 seconds
		APIAlphaVantage: rate.Limit(1.0 / 12.0),
		APIRentcast:     rate.Limit(10),
		// Scraping: at most one page per minute
		APILeboncoin: rate.Limit(1.0 / 60.0),
	}
}

// Limiter holds one token bucket per provider. Adapters of the same provider
// share a bucket, so the three news sections draw on one NewsAPI budget.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[API]*rate.Limiter
}

// New creates a limiter with one token bucket (burst 1) per API
func New(limits map[API]rate.Limit) *Limiter {
	l := &Limiter{limiters: make(map[API]*rate.Limiter, len(limits))}
	for api, limit := range limits {
		l.limiters[api] = rate.NewLimiter(limit, 1)
	}
	return l
}

// Unlimited creates a limiter that never waits, for tests
func Unlimited() *Limiter {
	return &Limiter{limiters: make(map[API]*rate.Limiter)}
}

// Wait blocks until api may be called or ctx is done. APIs without a bucket,
// and a nil Limiter, never wait.
func (l *Limiter) Wait(ctx context.Context, api API) error {
	if b := l.bucket(api); b != nil {
		return b.Wait(ctx)
	}
	return nil
}

// Allow reports whether api may be called now without waiting
func (l *Limiter) Allow(api API) bool {
	if b := l.bucket(api); b != nil {
		return b.Allow()
	}
	return true
}

func (l *Limiter) bucket(api API) *rate.Limiter {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limiters[api]
}

// SetLimit changes the rate for one API, creating its bucket if needed
func (l *Limiter) SetLimit(api API, limit rate.Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.limiters[api]; ok {
		existing.SetLimit(limit)
		return
	}
	l.limiters[api] = rate.NewLimiter(limit, 1)
}
