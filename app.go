package main

import (
	"context"
	"time"

	"dashboardfetcher/internal/alphavantage"
	"dashboardfetcher/internal/coingecko"
	"dashboardfetcher/internal/config"
	"dashboardfetcher/internal/coordinator"
	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/etherscan"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/leboncoin"
	"dashboardfetcher/internal/logging"
	"dashboardfetcher/internal/newsapi"
	"dashboardfetcher/internal/openweather"
	"dashboardfetcher/internal/ratelimit"
	"dashboardfetcher/internal/rentcast"
	"dashboardfetcher/internal/rss2json"
	"dashboardfetcher/internal/server"
	"dashboardfetcher/internal/static"
)

// app is the wired dashboard: one fallback chain per domain behind the
// coordinator, plus the raw proxies served to the browser.
type app struct {
	cfg       *config.Config
	coord     *coordinator.Coordinator
	proxies   server.Proxies
	searchURL string
}

// newApp builds every adapter from cfg. Live adapters are retried and guarded
// by a circuit breaker; the static adapter always closes the chain.
// AlphaVantage retries each symbol lookup itself, so its batch adapters are
// only guarded.
func newApp(cfg *config.Config, limiter *ratelimit.Limiter, sleep fetcher.Sleeper, now func() time.Time) *app {
	placeholders := cfg.Placeholders()
	canned := static.New(cfg.WeatherCity, cfg.NewsMaxArticles)

	guarded := func(a fetcher.Adapter) fetcher.Adapter {
		return fetcher.WithBreaker(a, cfg.Breaker())
	}
	closed := func(d domain.Domain, adapters ...fetcher.Adapter) coordinator.Pipeline {
		return fetcher.NewChain(d, append(adapters, static.NewAdapter(canned, d, now))...)
	}
	chain := func(d domain.Domain, adapters ...fetcher.Adapter) coordinator.Pipeline {
		wrapped := make([]fetcher.Adapter, 0, len(adapters)+1)
		for _, a := range adapters {
			wrapped = append(wrapped, guarded(fetcher.WithRetry(a, cfg.Retry(), sleep)))
		}
		return closed(d, wrapped...)
	}

	weather := openweather.New(openweather.Options{
		APIKey:       cfg.OpenWeatherAPIKey,
		BaseURL:      cfg.OpenWeatherBaseURL,
		Timeout:      cfg.RequestTimeout,
		City:         cfg.WeatherCity,
		Units:        cfg.WeatherUnits,
		Lang:         cfg.WeatherLang,
		Placeholders: placeholders,
		Limiter:      limiter,
		Now:          now,
	})

	quotes := alphavantage.NewClient(alphavantage.Options{
		APIKey:       cfg.AlphavantageAPIKey,
		BaseURL:      cfg.AlphavantageBaseURL,
		Timeout:      cfg.RequestTimeout,
		Placeholders: placeholders,
		Limiter:      limiter,
		Retry:        cfg.Retry(),
		Sleep:        sleep,
	})

	prices := coingecko.New(coingecko.Options{
		BaseURL: cfg.CoinGeckoBaseURL,
		Timeout: cfg.RequestTimeout,
		IDs:     cfg.CryptoIDs,
		Limiter: limiter,
	})
	ethPrice := etherscan.New(etherscan.Options{
		APIKey:       cfg.EtherscanAPIKey,
		BaseURL:      cfg.EtherscanBaseURL,
		Timeout:      cfg.RequestTimeout,
		IDs:          cfg.CryptoIDs,
		Placeholders: placeholders,
		Limiter:      limiter,
	})

	headlines := func(section config.NewsSection) *newsapi.Adapter {
		return newsapi.New(newsapi.Options{
			APIKey:  cfg.NewsAPIKey,
			BaseURL: cfg.NewsAPIBaseURL,
			Timeout: cfg.RequestTimeout,
			Section: newsapi.Section{
				Query:    section.Query,
				Category: section.Category,
				Language: section.Language,
				Country:  section.Country,
			},
			MaxArticles:  cfg.NewsMaxArticles,
			Placeholders: placeholders,
			Limiter:      limiter,
		})
	}
	feed := func(section config.NewsSection) *rss2json.Adapter {
		return rss2json.New(rss2json.Options{
			BaseURL:     cfg.RSS2JSONBaseURL,
			Timeout:     cfg.RequestTimeout,
			FeedURL:     section.Feed,
			MaxArticles: cfg.NewsMaxArticles,
			Limiter:     limiter,
		})
	}
	newsChain := func(d domain.Domain, section config.NewsSection) coordinator.Pipeline {
		if section.Feed == "" {
			return chain(d, headlines(section))
		}
		return chain(d, headlines(section), feed(section))
	}

	re := cfg.RealEstate
	listings := rentcast.NewListingsAdapter(rentcast.Options{
		APIKey:  cfg.RentcastAPIKey,
		BaseURL: cfg.RentcastBaseURL,
		Timeout: cfg.RequestTimeout,
		Criteria: rentcast.Criteria{
			City:         re.City,
			State:        re.State,
			ZipCode:      re.ZipCode,
			PropertyType: re.PropertyType,
			MinPrice:     re.MinPrice,
			MaxPrice:     re.MaxPrice,
			MinSurface:   re.MinSurface,
			MaxSurface:   re.MaxSurface,
			Limit:        re.Limit,
		},
		Placeholders: placeholders,
		Limiter:      limiter,
	})
	scraper := leboncoin.New(leboncoin.Options{
		BaseURL: cfg.LeboncoinBaseURL,
		Timeout: cfg.RequestTimeout,
		Criteria: leboncoin.Criteria{
			Location:     re.Location,
			ZipCode:      re.ZipCode,
			PropertyType: re.PropertyType,
			MaxPrice:     re.MaxPrice,
			MinSurface:   re.MinSurface,
			MaxSurface:   re.MaxSurface,
			Limit:        re.Limit,
		},
		Limiter: limiter,
	})
	realEstate := []fetcher.Adapter{listings}
	if cfg.LeboncoinEnabled {
		realEstate = append(realEstate, scraper)
	}

	pipelines := map[domain.Domain]coordinator.Pipeline{
		domain.Weather:         chain(domain.Weather, weather),
		domain.Stocks:          closed(domain.Stocks, guarded(alphavantage.NewQuoteAdapter(quotes, stockInstruments(cfg.Stocks)))),
		domain.Indices:         closed(domain.Indices, guarded(alphavantage.NewIndexAdapter(quotes, indexInstruments(cfg.Indices)))),
		domain.Crypto:          chain(domain.Crypto, prices, ethPrice),
		domain.NewsEconomy:     newsChain(domain.NewsEconomy, cfg.EconomyNews),
		domain.NewsAI:          newsChain(domain.NewsAI, cfg.AINews),
		domain.NewsGeopolitics: newsChain(domain.NewsGeopolitics, cfg.GeopoliticsNews),
		domain.RealEstate:      chain(domain.RealEstate, realEstate...),
	}

	// completed refreshes are logged by the coordinator itself
	log := logging.Component("coordinator")
	coord := coordinator.New(pipelines,
		coordinator.WithClock(now),
		coordinator.WithListener(coordinator.ListenerFunc(func(s coordinator.DomainState) {
			if s.Phase != coordinator.PhaseFetching {
				return
			}
			log.Debug().
				Str("domain", string(s.Domain)).
				Bool("has_previous", !s.LastUpdated.IsZero()).
				Msg("domain refresh started")
		})),
	)

	return &app{
		cfg:   cfg,
		coord: coord,
		proxies: server.Proxies{
			Weather: weather,
			News:    headlines(config.NewsSection{}),
			Crypto:  prices,
		},
		searchURL: scraper.SearchURL(),
	}
}

// server returns the HTTP surface. Refreshes triggered over HTTP are bound to
// ctx rather than to the request.
func (a *app) server(ctx context.Context) *server.Server {
	return server.New(a.coord, a.proxies, server.Options{
		CORSOrigins: a.cfg.CORSOrigins,
		RateLimit:   a.cfg.RateLimitRequests,
		StaticDir:   a.cfg.StaticDir,
		SearchURL:   a.searchURL,
		BaseContext: ctx,
	})
}

func stockInstruments(stocks []config.StockConfig) []alphavantage.Instrument {
	out := make([]alphavantage.Instrument, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, alphavantage.Instrument{Symbol: s.Symbol, Name: s.Name, Currency: s.Currency})
	}
	return out
}

func indexInstruments(indices []config.IndexConfig) []alphavantage.Instrument {
	out := make([]alphavantage.Instrument, 0, len(indices))
	for _, i := range indices {
		out = append(out, alphavantage.Instrument{Symbol: i.Symbol, Name: i.Name, QuoteSymbol: i.QuoteSymbol})
	}
	return out
}
