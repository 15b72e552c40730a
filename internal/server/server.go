// Package server exposes the dashboard over HTTP: raw upstream proxies for the
// browser client, normalized domain data from the coordinator, refresh
// triggers, health and Prometheus metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dashboardfetcher/internal/coordinator"
)

// WeatherProxy returns the provider's current-weather payload for a city
type WeatherProxy interface {
	Raw(ctx context.Context, city string) ([]byte, error)
}

// NewsProxy returns the provider's headline payload
type NewsProxy interface {
	Raw(ctx context.Context, query, category, language string) ([]byte, error)
}

// CryptoProxy returns the provider's price payload for comma separated ids
type CryptoProxy interface {
	Raw(ctx context.Context, ids string) ([]byte, error)
}

// Proxies groups the passthrough endpoints. A nil proxy disables its route.
type Proxies struct {
	Weather WeatherProxy
	News    NewsProxy
	Crypto  CryptoProxy
}

// Options configures the HTTP surface
type Options struct {
	// CORSOrigins defaults to any origin
	CORSOrigins []string
	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables limiting.
	RateLimit int
	// StaticDir, when set, is served at the root
	StaticDir string
	// SearchURL is the classifieds search page reported with listings
	SearchURL string
	// BaseContext parents refreshes triggered over HTTP so they outlive the
	// request. Defaults to context.Background.
	BaseContext context.Context
	// Now defaults to time.Now
	Now func() time.Time
}

// Server holds the handlers and their dependencies
type Server struct {
	coord   *coordinator.Coordinator
	proxies Proxies
	opts    Options
}

// New creates a server backed by coord
func New(coord *coordinator.Coordinator, proxies Proxies, opts Options) *Server {
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{coord: coord, proxies: proxies, opts: opts}
}

// Handler builds the chi router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(s.opts.CORSOrigins))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
		}

		r.Get("/health", s.health)

		if s.proxies.Weather != nil {
			r.Get("/weather/{city}", s.weather)
		}
		if s.proxies.News != nil {
			r.Get("/news", s.news)
		}
		if s.proxies.Crypto != nil {
			r.Get("/crypto", s.crypto)
		}

		r.Get("/stocks", s.stocks)
		r.Get("/indices", s.indices)
		r.Get("/realestate", s.realEstate)

		r.Get("/dashboard", s.dashboard)
		r.Get("/dashboard/{domain}", s.dashboardDomain)
		r.Post("/refresh", s.refreshAll)
		r.Post("/refresh/{domain}", s.refreshDomain)
	})

	if s.opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.opts.StaticDir)))
	}

	return r
}
