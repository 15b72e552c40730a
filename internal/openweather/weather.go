// Package openweather fetches current conditions and a short daily forecast
// from the OpenWeatherMap 2.5 API.
package openweather

import (
	"context"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc/pool"
	"resty.dev/v3"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/ratelimit"
)

// ForecastDays is the number of days kept from the 5 day forecast
const ForecastDays = 4

// Forecast entries between these city-local hours stand for the whole day
const (
	middayFrom = 11
	middayTo   = 14
)

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// currentResponse is the /weather payload. Measurements are pointers since the
// provider drops fields it has no reading for.
type currentResponse struct {
	Name     string      `json:"name"`
	Timezone int         `json:"timezone"`
	Weather  []condition `json:"weather"`
	Main     struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// forecastResponse is the /forecast payload (3 hour steps)
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []condition `json:"weather"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Options configures the adapter
type Options struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	City         string
	Units        string
	Lang         string
	Placeholders []string
	Limiter      *ratelimit.Limiter
	// Now defaults to time.Now
	Now func() time.Time
}

// Adapter yields one WeatherRecord for the configured city
type Adapter struct {
	apiKey       string
	city         string
	units        string
	lang         string
	placeholders []string
	client       *resty.Client
	limiter      *ratelimit.Limiter
	now          func() time.Time
}

// New creates an OpenWeatherMap adapter
func New(opts Options) *Adapter {
	if opts.Units == "" {
		opts.Units = "metric"
	}
	if opts.Lang == "" {
		opts.Lang = "fr"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Adapter{
		apiKey:       opts.APIKey,
		city:         opts.City,
		units:        opts.Units,
		lang:         opts.Lang,
		placeholders: opts.Placeholders,
		client:       fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout),
		limiter:      opts.Limiter,
		now:          opts.Now,
	}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string { return "openweather" }

func (a *Adapter) get(ctx context.Context, path, city string, extra map[string]string) ([]byte, error) {
	if fetcher.IsPlaceholderCredential(a.apiKey, a.placeholders) {
		return nil, fetcher.NewCredentialError("openweather")
	}
	if err := a.limiter.Wait(ctx, ratelimit.APIOpenWeather); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"units": a.units,
			"lang":  a.lang,
			"appid": a.apiKey,
		}).
		SetQueryParams(extra).
		Get(path)

	return fetcher.Body(resp, err)
}

// Raw returns the provider's current weather body for city
func (a *Adapter) Raw(ctx context.Context, city string) ([]byte, error) {
	return a.get(ctx, "/weather", city, nil)
}

// Fetch retrieves current conditions and the forecast concurrently. Both calls
// must succeed.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	var current currentResponse
	var forecast forecastResponse

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		body, err := a.Raw(ctx, a.city)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &current); err != nil {
			return fetcher.NewMalformedError("decode current weather: " + err.Error())
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		body, err := a.get(ctx, "/forecast", a.city, map[string]string{"cnt": "40"})
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &forecast); err != nil {
			return fetcher.NewMalformedError("decode forecast: " + err.Error())
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	if current.Main.Temp == nil || len(current.Weather) == 0 {
		return nil, fetcher.NewMalformedError("current weather lacks temperature or condition")
	}

	city := current.Name
	if city == "" {
		city = a.city
	}

	rec := domain.WeatherRecord{
		City:         city,
		TemperatureC: *current.Main.Temp,
		FeelsLikeC:   current.Main.FeelsLike,
		HumidityPct:  current.Main.Humidity,
		PressureHPa:  current.Main.Pressure,
		Condition:    current.Weather[0].Main,
		Description:  current.Weather[0].Description,
		Forecast:     dailyForecast(forecast, a.now()),
	}
	if current.Wind.Speed != nil {
		kmh := math.Round(*current.Wind.Speed*3.6*10) / 10
		rec.WindKmh = &kmh
	}

	return []domain.Record{rec}, nil
}

// dailyForecast keeps the first midday entry of each upcoming city-local day,
// skipping today, up to ForecastDays entries.
func dailyForecast(f forecastResponse, now time.Time) []domain.ForecastDay {
	loc := time.FixedZone(f.City.Name, f.City.Timezone)
	today := now.In(loc).Format(time.DateOnly)
	seen := make(map[string]bool, ForecastDays)

	days := make([]domain.ForecastDay, 0, ForecastDays)
	for _, item := range f.List {
		local := time.Unix(item.Dt, 0).In(loc)
		key := local.Format(time.DateOnly)
		hour := local.Hour()

		if key == today || seen[key] || hour < middayFrom || hour > middayTo {
			continue
		}
		seen[key] = true

		day := domain.ForecastDay{Date: local, TemperatureC: item.Main.Temp}
		if len(item.Weather) > 0 {
			day.Condition = item.Weather[0].Main
			day.Description = item.Weather[0].Description
		}
		days = append(days, day)

		if len(days) == ForecastDays {
			break
		}
	}
	return days
}
