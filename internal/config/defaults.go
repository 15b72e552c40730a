package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("static_dir", "")

	v.SetDefault("openweather_base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("news_api_base_url", "https://newsapi.org/v2")
	v.SetDefault("rss2json_base_url", "https://api.rss2json.com/v1")
	v.SetDefault("coingecko_base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("etherscan_base_url", "https://api.etherscan.io/v2/api")
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("rentcast_base_url", "https://api.rentcast.io/v1")
	v.SetDefault("leboncoin_base_url", "https://www.leboncoin.fr")

	v.SetDefault("placeholder_keys", []string{"demo", "your_api_key", "changeme"})

	v.SetDefault("weather_city", "Dubai")
	v.SetDefault("weather_units", "metric")
	v.SetDefault("weather_lang", "fr")

	v.SetDefault("stocks", []map[string]any{
		{"symbol": "TTE", "name": "TotalEnergies", "currency": "€"},
		{"symbol": "AI.PA", "name": "Air Liquide", "currency": "€"},
		{"symbol": "PLTR", "name": "Palantir", "currency": "$"},
		{"symbol": "NVDA", "name": "NVIDIA", "currency": "$"},
		{"symbol": "GOOGL", "name": "Alphabet", "currency": "$"},
		{"symbol": "AAPL", "name": "Apple", "currency": "$"},
		{"symbol": "AMZN", "name": "Amazon", "currency": "$"},
		{"symbol": "NKE", "name": "Nike", "currency": "$"},
	})
	v.SetDefault("indices", []map[string]any{
		{"symbol": "^GSPC", "name": "S&P 500", "quote_symbol": "SPY"},
		{"symbol": "^FCHI", "name": "CAC 40", "quote_symbol": "CAC.PA"},
	})
	v.SetDefault("crypto_ids", []string{"bitcoin", "ethereum", "binancecoin", "cardano", "solana"})

	v.SetDefault("economy_news.category", "business")
	v.SetDefault("economy_news.language", "fr")
	v.SetDefault("economy_news.country", "fr")
	v.SetDefault("economy_news.feed", "https://www.lesechos.fr/rss/finance-marches.xml")

	v.SetDefault("ai_news.query", "artificial intelligence OR AI OR machine learning")
	v.SetDefault("ai_news.language", "en")
	v.SetDefault("ai_news.feed", "https://www.artificialintelligence-news.com/feed/")

	v.SetDefault("geopolitics_news.category", "general")
	v.SetDefault("geopolitics_news.language", "fr")
	v.SetDefault("geopolitics_news.country", "fr")
	v.SetDefault("geopolitics_news.feed", "https://www.lemonde.fr/international/rss_full.xml")

	v.SetDefault("news_max_articles", 5)

	v.SetDefault("real_estate.location", "Seignosse")
	v.SetDefault("real_estate.city", "Seignosse")
	v.SetDefault("real_estate.state", "")
	v.SetDefault("real_estate.zip_code", "40510")
	v.SetDefault("real_estate.min_price", 0)
	v.SetDefault("real_estate.max_price", 350000)
	v.SetDefault("real_estate.min_surface", 25)
	v.SetDefault("real_estate.max_surface", 50)
	v.SetDefault("real_estate.property_type", 2)
	v.SetDefault("real_estate.limit", 4)
	v.SetDefault("leboncoin_enabled", false)

	v.SetDefault("refresh_interval", time.Hour)
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay", time.Second)
	v.SetDefault("retry_multiplier", 2.0)
	v.SetDefault("breaker_failures", 5)
	v.SetDefault("breaker_cooldown", 5*time.Minute)

	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("rate_limit_requests", 120)
}
