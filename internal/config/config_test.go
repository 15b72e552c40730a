package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak
// into a test. Viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "STATIC_DIR",
		"OPENWEATHER_API_KEY", "NEWS_API_KEY", "ALPHAVANTAGE_API_KEY", "RENTCAST_API_KEY", "ETHERSCAN_API_KEY",
		"OPENWEATHER_BASE_URL", "NEWS_API_BASE_URL", "RSS2JSON_BASE_URL", "COINGECKO_BASE_URL",
		"ETHERSCAN_BASE_URL", "ALPHAVANTAGE_BASE_URL", "RENTCAST_BASE_URL", "LEBONCOIN_BASE_URL",
		"WEATHER_CITY", "WEATHER_LANG", "STOCK_SYMBOLS", "CRYPTO_IDS", "PLACEHOLDER_KEYS",
		"REFRESH_INTERVAL", "REQUEST_TIMEOUT", "RETRY_MAX_ATTEMPTS", "RETRY_BASE_DELAY", "RETRY_MULTIPLIER",
		"NEWS_MAX_ARTICLES", "REAL_ESTATE_MAX_PRICE", "LEBONCOIN_ENABLED", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"Port", cfg.Port, 3000},
		{"WeatherCity", cfg.WeatherCity, "Dubai"},
		{"WeatherLang", cfg.WeatherLang, "fr"},
		{"OpenWeatherBaseURL", cfg.OpenWeatherBaseURL, "https://api.openweathermap.org/data/2.5"},
		{"CoinGeckoBaseURL", cfg.CoinGeckoBaseURL, "https://api.coingecko.com/api/v3"},
		{"AlphavantageBaseURL", cfg.AlphavantageBaseURL, "https://www.alphavantage.co/query"},
		{"RentcastBaseURL", cfg.RentcastBaseURL, "https://api.rentcast.io/v1"},
		{"RefreshInterval", cfg.RefreshInterval, time.Hour},
		{"RequestTimeout", cfg.RequestTimeout, 15 * time.Second},
		{"RetryMaxAttempts", cfg.RetryMaxAttempts, 3},
		{"RetryBaseDelay", cfg.RetryBaseDelay, time.Second},
		{"RetryMultiplier", cfg.RetryMultiplier, 2.0},
		{"NewsMaxArticles", cfg.NewsMaxArticles, 5},
		{"Stocks", len(cfg.Stocks), 8},
		{"Indices", len(cfg.Indices), 2},
		{"CryptoIDs", len(cfg.CryptoIDs), 5},
		{"EconomyNews.Category", cfg.EconomyNews.Category, "business"},
		{"RealEstate.MaxPrice", cfg.RealEstate.MaxPrice, 350000},
		{"RealEstate.ZipCode", cfg.RealEstate.ZipCode, "40510"},
		{"LeboncoinEnabled", cfg.LeboncoinEnabled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if cfg.Indices[0].QuoteSymbol != "SPY" {
		t.Errorf("Indices[0].QuoteSymbol = %q, want SPY", cfg.Indices[0].QuoteSymbol)
	}
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)

	envVars := map[string]string{
		"PORT":                  "8080",
		"OPENWEATHER_API_KEY":   "test_openweather_key",
		"NEWS_API_KEY":          "test_news_key",
		"ETHERSCAN_API_KEY":     "test_etherscan_key",
		"ALPHAVANTAGE_API_KEY":  "test_alphavantage_key",
		"RENTCAST_API_KEY":      "test_rentcast_key",
		"ETHERSCAN_BASE_URL":    "https://test.etherscan.io",
		"ALPHAVANTAGE_BASE_URL": "https://test.alphavantage.co",
		"RENTCAST_BASE_URL":     "https://test.rentcast.io",
		"WEATHER_CITY":          "Paris",
		"CRYPTO_IDS":            "bitcoin,solana",
		"REFRESH_INTERVAL":      "30m",
		"RETRY_BASE_DELAY":      "250ms",
		"RETRY_MULTIPLIER":      "2",
		"REAL_ESTATE_MAX_PRICE": "400000",
		"LEBONCOIN_ENABLED":     "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"Port", cfg.Port, 8080},
		{"OpenWeatherAPIKey", cfg.OpenWeatherAPIKey, "test_openweather_key"},
		{"NewsAPIKey", cfg.NewsAPIKey, "test_news_key"},
		{"EtherscanAPIKey", cfg.EtherscanAPIKey, "test_etherscan_key"},
		{"AlphavantageAPIKey", cfg.AlphavantageAPIKey, "test_alphavantage_key"},
		{"RentcastAPIKey", cfg.RentcastAPIKey, "test_rentcast_key"},
		{"EtherscanBaseURL", cfg.EtherscanBaseURL, "https://test.etherscan.io"},
		{"AlphavantageBaseURL", cfg.AlphavantageBaseURL, "https://test.alphavantage.co"},
		{"RentcastBaseURL", cfg.RentcastBaseURL, "https://test.rentcast.io"},
		{"WeatherCity", cfg.WeatherCity, "Paris"},
		{"CryptoIDs", strings.Join(cfg.CryptoIDs, ","), "bitcoin,solana"},
		{"RefreshInterval", cfg.RefreshInterval, 30 * time.Minute},
		{"RetryBaseDelay", cfg.Retry().BaseDelay, 250 * time.Millisecond},
		{"RetryMultiplier", cfg.Retry().Multiplier, 2.0},
		{"RealEstate.MaxPrice", cfg.RealEstate.MaxPrice, 400000},
		{"LeboncoinEnabled", cfg.LeboncoinEnabled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoad_StockSymbols(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOCK_SYMBOLS", "NVDA, MSFT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if len(cfg.Stocks) != 2 {
		t.Fatalf("len(Stocks) = %d, want 2", len(cfg.Stocks))
	}
	if cfg.Stocks[0].Name != "NVIDIA" {
		t.Errorf("Stocks[0].Name = %q, want NVIDIA from the defaults", cfg.Stocks[0].Name)
	}
	if cfg.Stocks[1].Symbol != "MSFT" || cfg.Stocks[1].Name != "MSFT" || cfg.Stocks[1].Currency != "$" {
		t.Errorf("Stocks[1] = %+v", cfg.Stocks[1])
	}
}

func TestLoad_MissingKeysAreNotFatal(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	missing := cfg.MissingCredentials()
	if len(missing) != 5 {
		t.Errorf("MissingCredentials() = %v, want all 5 providers", missing)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "PORT", "70000"},
		{"zero retry attempts", "RETRY_MAX_ATTEMPTS", "0"},
		{"multiplier below one", "RETRY_MULTIPLIER", "0.5"},
		{"interval too short", "REFRESH_INTERVAL", "100ms"},
		{"bad base url", "COINGECKO_BASE_URL", "not a url"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%s, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)

	// godotenv never overrides a variable that is already present, even empty
	os.Unsetenv("NEWS_API_KEY")
	t.Cleanup(func() { os.Unsetenv("NEWS_API_KEY") })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("NEWS_API_KEY=from_dotenv\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.NewsAPIKey != "from_dotenv" {
		t.Errorf("NewsAPIKey = %q, want from_dotenv", cfg.NewsAPIKey)
	}
}

func TestMissingCredentials(t *testing.T) {
	cfg := &Config{
		OpenWeatherAPIKey:  "demo",
		NewsAPIKey:         "real_news_key",
		AlphavantageAPIKey: "",
		RentcastAPIKey:     "real_rentcast_key",
		EtherscanAPIKey:    "your_api_key",
	}

	got := strings.Join(cfg.MissingCredentials(), ",")
	want := "OPENWEATHER_API_KEY,ALPHAVANTAGE_API_KEY,ETHERSCAN_API_KEY"
	if got != want {
		t.Errorf("MissingCredentials() = %q, want %q", got, want)
	}

	cfg.PlaceholderKeys = []string{"real_news_key"}
	got = strings.Join(cfg.MissingCredentials(), ",")
	if want := "NEWS_API_KEY,ALPHAVANTAGE_API_KEY"; got != want {
		t.Errorf("custom placeholders: MissingCredentials() = %q, want %q", got, want)
	}
}

func TestBreaker(t *testing.T) {
	cfg := &Config{BreakerFailures: 3, BreakerCooldown: time.Minute}
	b := cfg.Breaker()
	if b.ConsecutiveFailures != 3 || b.Cooldown != time.Minute {
		t.Errorf("Breaker() = %+v", b)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	yaml := "weather_city: Biarritz\nprovider_rate_limits:\n  alphavantage: 0.2\n  coingecko: 0.5\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.WeatherCity != "Biarritz" {
		t.Errorf("WeatherCity = %q, want Biarritz", cfg.WeatherCity)
	}
	if got := cfg.ProviderRateLimits["alphavantage"]; got != 0.2 {
		t.Errorf("ProviderRateLimits[alphavantage] = %v, want 0.2", got)
	}
	if len(cfg.ProviderRateLimits) != 2 {
		t.Errorf("len(ProviderRateLimits) = %d, want 2", len(cfg.ProviderRateLimits))
	}
}
