package domain

import (
	"math"
	"strings"
	"time"
)

// Domain identifies one category of aggregated dashboard data
type Domain string

const (
	// Weather is current conditions plus a short forecast for one city
	Weather Domain = "weather"
	// Stocks is the tracked equity quotes
	Stocks Domain = "stocks"
	// Indices is the tracked market indices
	Indices Domain = "indices"
	// Crypto is the tracked cryptocurrency prices
	Crypto Domain = "crypto"
	// NewsEconomy is the economy and markets headline section
	NewsEconomy Domain = "news_economy"
	// NewsAI is the artificial intelligence headline section
	NewsAI Domain = "news_ai"
	// NewsGeopolitics is the international headline section
	NewsGeopolitics Domain = "news_geopolitics"
	// RealEstate is the classifieds listings section
	RealEstate Domain = "realestate"
)

// AllDomains returns every domain in dashboard display order
func AllDomains() []Domain {
	return []Domain{Indices, Stocks, Crypto, NewsEconomy, NewsAI, Weather, RealEstate, NewsGeopolitics}
}

// Parse returns the Domain named by s
func Parse(s string) (Domain, bool) {
	for _, d := range AllDomains() {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// IsNews reports whether d is one of the headline sections
func (d Domain) IsNews() bool {
	return d == NewsEconomy || d == NewsAI || d == NewsGeopolitics
}

// Record is a normalized, immutable value produced by an adapter
type Record interface {
	Kind() string
}

// Trend is the directional indicator derived from a percent change
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Direction maps a percent change to its indicator; zero counts as up.
func Direction(change float64) Trend {
	if change >= 0 {
		return TrendUp
	}
	return TrendDown
}

// Finite replaces NaN and infinities with 0
func Finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// QuoteRecord is a priced instrument (equity or crypto asset)
type QuoteRecord struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	ChangePercent float64 `json:"change"`
	Trend         Trend   `json:"trend"`
}

// NewQuote builds a QuoteRecord with finite numbers and its trend set
func NewQuote(symbol, name string, price float64, currency string, change float64) QuoteRecord {
	change = Finite(change)
	return QuoteRecord{
		Symbol:        symbol,
		Name:          name,
		Price:         Finite(price),
		Currency:      currency,
		ChangePercent: change,
		Trend:         Direction(change),
	}
}

func (QuoteRecord) Kind() string { return "quote" }

// IndexRecord is a market index level
type IndexRecord struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change"`
	Trend         Trend   `json:"trend"`
}

// NewIndex builds an IndexRecord with finite numbers and its trend set
func NewIndex(symbol, name string, price, change float64) IndexRecord {
	change = Finite(change)
	return IndexRecord{
		Symbol:        symbol,
		Name:          name,
		Price:         Finite(price),
		ChangePercent: change,
		Trend:         Direction(change),
	}
}

func (IndexRecord) Kind() string { return "index" }

// ForecastDay is one day of the short forecast
type ForecastDay struct {
	Date         time.Time `json:"date"`
	TemperatureC float64   `json:"temp"`
	Condition    string    `json:"condition"`
	Description  string    `json:"description"`
}

// WeatherRecord is current conditions for a city.
// Optional measurements are nil when the provider omitted them.
type WeatherRecord struct {
	City         string        `json:"city"`
	TemperatureC float64       `json:"temp"`
	FeelsLikeC   *float64      `json:"feelsLike,omitempty"`
	HumidityPct  *float64      `json:"humidity,omitempty"`
	WindKmh      *float64      `json:"windKmh,omitempty"`
	PressureHPa  *float64      `json:"pressure,omitempty"`
	Condition    string        `json:"condition"`
	Description  string        `json:"description"`
	Forecast     []ForecastDay `json:"forecast,omitempty"`
}

func (WeatherRecord) Kind() string { return "weather" }

// NewsItem is one headline
type NewsItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func (NewsItem) Kind() string { return "news" }

// ListingRecord is one real-estate listing. Price and measurements are kept as
// display strings because the classifieds source only exposes formatted text.
type ListingRecord struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Surface     string `json:"surface,omitempty"`
	Rooms       string `json:"rooms,omitempty"`
	Location    string `json:"location,omitempty"`
	Distance    string `json:"distance,omitempty"`
	Description string `json:"description,omitempty"`
	Posted      string `json:"posted,omitempty"`
	URL         string `json:"url,omitempty"`
}

func (ListingRecord) Kind() string { return "listing" }

// ExcerptLength is the number of runes kept by Excerpt
const ExcerptLength = 150

// Excerpt returns the first ExcerptLength runes of s followed by "...".
// An empty s yields "".
func Excerpt(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + "..."
}
