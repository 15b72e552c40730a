package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"dashboardfetcher/internal/fetcher"
)

// StockConfig describes one tracked equity
type StockConfig struct {
	Symbol   string `mapstructure:"symbol" validate:"required"`
	Name     string `mapstructure:"name"`
	Currency string `mapstructure:"currency"`
}

// IndexConfig describes one tracked market index. QuoteSymbol is the ticker
// queried upstream when the index itself is not quotable (e.g. an ETF proxy).
type IndexConfig struct {
	Symbol      string `mapstructure:"symbol" validate:"required"`
	Name        string `mapstructure:"name"`
	QuoteSymbol string `mapstructure:"quote_symbol"`
}

// NewsSection configures one headline section
type NewsSection struct {
	Query    string `mapstructure:"query"`
	Category string `mapstructure:"category"`
	Language string `mapstructure:"language"`
	Country  string `mapstructure:"country"`
	// Feed is the RSS feed URL used by the secondary news adapter
	Feed string `mapstructure:"feed"`
}

// RealEstateConfig holds the listing search criteria
type RealEstateConfig struct {
	Location     string `mapstructure:"location"`
	City         string `mapstructure:"city"`
	State        string `mapstructure:"state"`
	ZipCode      string `mapstructure:"zip_code"`
	MinPrice     int    `mapstructure:"min_price" validate:"gte=0"`
	MaxPrice     int    `mapstructure:"max_price" validate:"gte=0"`
	MinSurface   int    `mapstructure:"min_surface" validate:"gte=0"`
	MaxSurface   int    `mapstructure:"max_surface" validate:"gte=0"`
	PropertyType int    `mapstructure:"property_type" validate:"oneof=1 2"`
	Limit        int    `mapstructure:"limit" validate:"gte=1"`
}

// Config holds all configuration for the dashboard service.
type Config struct {
	Port      int    `mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`
	StaticDir string `mapstructure:"static_dir"`

	// API Keys for various services. A key equal to one of PlaceholderKeys is
	// treated as not configured.
	OpenWeatherAPIKey  string   `mapstructure:"openweather_api_key"`
	NewsAPIKey         string   `mapstructure:"news_api_key"`
	AlphavantageAPIKey string   `mapstructure:"alphavantage_api_key"`
	RentcastAPIKey     string   `mapstructure:"rentcast_api_key"`
	EtherscanAPIKey    string   `mapstructure:"etherscan_api_key"`
	PlaceholderKeys    []string `mapstructure:"placeholder_keys"`

	// Base URLs for API endpoints (configurable for testing)
	OpenWeatherBaseURL  string `mapstructure:"openweather_base_url" validate:"url"`
	NewsAPIBaseURL      string `mapstructure:"news_api_base_url" validate:"url"`
	RSS2JSONBaseURL     string `mapstructure:"rss2json_base_url" validate:"url"`
	CoinGeckoBaseURL    string `mapstructure:"coingecko_base_url" validate:"url"`
	EtherscanBaseURL    string `mapstructure:"etherscan_base_url" validate:"url"`
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url" validate:"url"`
	RentcastBaseURL     string `mapstructure:"rentcast_base_url" validate:"url"`
	LeboncoinBaseURL    string `mapstructure:"leboncoin_base_url" validate:"url"`

	// Items to fetch
	WeatherCity  string        `mapstructure:"weather_city" validate:"required"`
	WeatherUnits string        `mapstructure:"weather_units" validate:"oneof=metric imperial standard"`
	WeatherLang  string        `mapstructure:"weather_lang"`
	Stocks       []StockConfig `mapstructure:"stocks" validate:"dive"`
	Indices      []IndexConfig `mapstructure:"indices" validate:"dive"`
	CryptoIDs    []string      `mapstructure:"crypto_ids" validate:"min=1"`

	EconomyNews     NewsSection `mapstructure:"economy_news"`
	AINews          NewsSection `mapstructure:"ai_news"`
	GeopoliticsNews NewsSection `mapstructure:"geopolitics_news"`
	NewsMaxArticles int         `mapstructure:"news_max_articles" validate:"min=1,max=50"`

	RealEstate       RealEstateConfig `mapstructure:"real_estate"`
	LeboncoinEnabled bool             `mapstructure:"leboncoin_enabled"`

	// Refresh and resilience
	RefreshInterval  time.Duration `mapstructure:"refresh_interval" validate:"min=1s"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" validate:"min=1ms"`
	RetryMaxAttempts int           `mapstructure:"retry_max_attempts" validate:"min=1"`
	RetryBaseDelay   time.Duration `mapstructure:"retry_base_delay" validate:"min=0"`
	RetryMultiplier  float64       `mapstructure:"retry_multiplier" validate:"min=1"`
	BreakerFailures  uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
	// ProviderRateLimits overrides the default requests per second of a
	// provider, keyed by provider name (e.g. alphavantage: 0.2)
	ProviderRateLimits map[string]float64 `mapstructure:"provider_rate_limits" validate:"dive,gt=0"`

	// HTTP surface
	CORSOrigins       []string `mapstructure:"cors_origins"`
	RateLimitRequests int      `mapstructure:"rate_limit_requests" validate:"gte=0"`
}

// Load reads configuration from a .env file, environment variables and an
// optional config file. Environment variables take precedence over config file
// values.
//
// Expected environment variables (all optional; unset keys fall back to static
// content for that domain):
//   - OPENWEATHER_API_KEY
//   - NEWS_API_KEY
//   - ALPHAVANTAGE_API_KEY
//   - RENTCAST_API_KEY
//   - ETHERSCAN_API_KEY
//   - PORT, LOG_LEVEL, LOG_FORMAT
//   - *_BASE_URL (optional, defaults to production)
//   - STOCK_SYMBOLS, CRYPTO_IDS (comma separated)
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set up environment variable support; nested keys map real_estate.max_price
	// to REAL_ESTATE_MAX_PRICE
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.dashboard")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables for API keys
	v.BindEnv("openweather_api_key", "OPENWEATHER_API_KEY")
	v.BindEnv("news_api_key", "NEWS_API_KEY")
	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")
	v.BindEnv("rentcast_api_key", "RENTCAST_API_KEY")
	v.BindEnv("etherscan_api_key", "ETHERSCAN_API_KEY")

	// Bind environment variables for base URLs
	v.BindEnv("openweather_base_url", "OPENWEATHER_BASE_URL")
	v.BindEnv("news_api_base_url", "NEWS_API_BASE_URL")
	v.BindEnv("rss2json_base_url", "RSS2JSON_BASE_URL")
	v.BindEnv("coingecko_base_url", "COINGECKO_BASE_URL")
	v.BindEnv("etherscan_base_url", "ETHERSCAN_BASE_URL")
	v.BindEnv("alphavantage_base_url", "ALPHAVANTAGE_BASE_URL")
	v.BindEnv("rentcast_base_url", "RENTCAST_BASE_URL")
	v.BindEnv("leboncoin_base_url", "LEBONCOIN_BASE_URL")

	// Unmarshal config into struct (handles both simple and complex fields)
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if symbols := v.GetString("stock_symbols"); symbols != "" {
		config.Stocks = stocksFromSymbols(strings.Split(symbols, ","), config.Stocks)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadDotEnv loads .env without overriding variables already set.
// ENV_FILE selects another file.
func loadDotEnv() error {
	path := ".env"
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		path = envFile
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Retry returns the retry policy settings
func (c *Config) Retry() fetcher.RetryConfig {
	return fetcher.RetryConfig{
		MaxAttempts: c.RetryMaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
		Multiplier:  c.RetryMultiplier,
	}
}

// Breaker returns the circuit breaker settings
func (c *Config) Breaker() fetcher.BreakerConfig {
	return fetcher.BreakerConfig{
		ConsecutiveFailures: c.BreakerFailures,
		Cooldown:            c.BreakerCooldown,
	}
}

// Placeholders returns the credential values treated as "not configured"
func (c *Config) Placeholders() []string {
	if len(c.PlaceholderKeys) == 0 {
		return fetcher.DefaultPlaceholders
	}
	return c.PlaceholderKeys
}

// MissingCredentials lists the env vars of providers without a usable key.
// Those providers are skipped and their domains fall back to other sources.
func (c *Config) MissingCredentials() []string {
	keys := []struct {
		env   string
		value string
	}{
		{"OPENWEATHER_API_KEY", c.OpenWeatherAPIKey},
		{"NEWS_API_KEY", c.NewsAPIKey},
		{"ALPHAVANTAGE_API_KEY", c.AlphavantageAPIKey},
		{"RENTCAST_API_KEY", c.RentcastAPIKey},
		{"ETHERSCAN_API_KEY", c.EtherscanAPIKey},
	}

	var missing []string
	for _, k := range keys {
		if fetcher.IsPlaceholderCredential(k.value, c.Placeholders()) {
			missing = append(missing, k.env)
		}
	}
	return missing
}

func stocksFromSymbols(symbols []string, known []StockConfig) []StockConfig {
	byName := make(map[string]StockConfig, len(known))
	for _, s := range known {
		byName[s.Symbol] = s
	}

	stocks := make([]StockConfig, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		if s, ok := byName[sym]; ok {
			stocks = append(stocks, s)
			continue
		}
		stocks = append(stocks, StockConfig{Symbol: sym, Name: sym, Currency: "$"})
	}
	return stocks
}
