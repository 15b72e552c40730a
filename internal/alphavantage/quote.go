package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/logging"
	"dashboardfetcher/internal/ratelimit"
)

// GlobalQuoteResponse represents the AlphaVantage API response for stock quotes.
// Throttled or rejected calls come back as 200 with Note or Information set.
type GlobalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// Instrument is one tracked symbol
type Instrument struct {
	Symbol   string
	Name     string
	Currency string
	// QuoteSymbol is queried instead of Symbol when set
	QuoteSymbol string
}

func (i Instrument) upstream() string {
	if i.QuoteSymbol != "" {
		return i.QuoteSymbol
	}
	return i.Symbol
}

// Options configures the AlphaVantage client
type Options struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	Placeholders []string
	Limiter      *ratelimit.Limiter
	// Retry applies to each symbol lookup on its own, so a transient failure
	// never re-queries symbols that already succeeded. The zero value makes a
	// single attempt.
	Retry fetcher.RetryConfig
	Sleep fetcher.Sleeper
}

// Client performs GLOBAL_QUOTE lookups
type Client struct {
	apiKey       string
	placeholders []string
	client       *resty.Client
	limiter      *ratelimit.Limiter
	retry        fetcher.RetryConfig
	sleep        fetcher.Sleeper
}

type quote struct {
	price  float64
	change float64
}

// NewClient creates an AlphaVantage client shared by the quote and index adapters
func NewClient(opts Options) *Client {
	return &Client{
		apiKey:       opts.APIKey,
		placeholders: opts.Placeholders,
		client:       fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout),
		limiter:      opts.Limiter,
		retry:        opts.Retry,
		sleep:        opts.Sleep,
	}
}

// Quote retrieves the current price and percent change for ticker, retrying
// transient failures of this lookup alone.
func (c *Client) Quote(ctx context.Context, ticker string) (price, change float64, err error) {
	if fetcher.IsPlaceholderCredential(c.apiKey, c.placeholders) {
		return 0, 0, fetcher.NewCredentialError("alphavantage")
	}

	q, err := fetcher.Retry(ctx, c.retry, c.sleep, func(ctx context.Context) (quote, error) {
		return c.quote(ctx, ticker)
	})
	return q.price, q.change, err
}

func (c *Client) quote(ctx context.Context, ticker string) (quote, error) {
	if err := c.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return quote{}, fetcher.NewTimeoutError(err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   c.apiKey,
			"function": "GLOBAL_QUOTE",
			"symbol":   ticker,
		}).
		Get("")

	body, err := fetcher.Body(resp, err)
	if err != nil {
		return quote{}, err
	}

	var result GlobalQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return quote{}, fetcher.NewMalformedError("decode alphavantage quote: " + err.Error())
	}

	switch {
	case result.Note != "":
		return quote{}, fetcher.NewMalformedError("alphavantage throttled: " + result.Note)
	case result.Information != "":
		return quote{}, fetcher.NewMalformedError("alphavantage rejected: " + result.Information)
	case result.ErrorMessage != "":
		return quote{}, fetcher.NewMalformedError("alphavantage error: " + result.ErrorMessage)
	case result.GlobalQuote.Price == "":
		return quote{}, fetcher.NewMalformedError(fmt.Sprintf("price not found in response for %s", ticker))
	}

	price, err := strconv.ParseFloat(result.GlobalQuote.Price, 64)
	if err != nil {
		return quote{}, fetcher.NewMalformedError(fmt.Sprintf("failed to parse stock price: %v", err))
	}

	change, err := ParsePercent(result.GlobalQuote.ChangePercent)
	if err != nil {
		return quote{}, fetcher.NewMalformedError(fmt.Sprintf("failed to parse change percent: %v", err))
	}

	return quote{price: price, change: change}, nil
}

// ParsePercent parses values such as "0.98%" or "-1.2345%"; an empty string is 0
func ParsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// collect queries every instrument in order. A symbol the provider cannot
// price is skipped; transport and credential failures abort the batch since
// they would fail for every symbol.
func collect(ctx context.Context, c *Client, items []Instrument, build func(Instrument, float64, float64) domain.Record) ([]domain.Record, error) {
	if len(items) == 0 {
		return nil, fetcher.NewMalformedError("no symbols configured")
	}

	log := logging.Component("alphavantage")
	records := make([]domain.Record, 0, len(items))
	var lastErr error

	for _, item := range items {
		price, change, err := c.Quote(ctx, item.upstream())
		if err != nil {
			if fetcher.KindOf(err) != fetcher.KindMalformed {
				return nil, err
			}
			log.Warn().Err(err).Str("symbol", item.Symbol).Msg("skipping symbol")
			lastErr = err
			continue
		}
		records = append(records, build(item, price, change))
	}

	if len(records) == 0 {
		if lastErr == nil {
			lastErr = errors.New("no quotes returned")
		}
		return nil, lastErr
	}
	return records, nil
}

// QuoteAdapter yields equity quotes
type QuoteAdapter struct {
	client *Client
	stocks []Instrument
}

// NewQuoteAdapter creates the stocks adapter
func NewQuoteAdapter(c *Client, stocks []Instrument) *QuoteAdapter {
	return &QuoteAdapter{client: c, stocks: stocks}
}

// Name implements fetcher.Adapter
func (a *QuoteAdapter) Name() string { return "alphavantage" }

// Fetch implements fetcher.Adapter
func (a *QuoteAdapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	return collect(ctx, a.client, a.stocks, func(i Instrument, price, change float64) domain.Record {
		return domain.NewQuote(i.Symbol, i.Name, price, i.Currency, change)
	})
}

// IndexAdapter yields market index levels
type IndexAdapter struct {
	client  *Client
	indices []Instrument
}

// NewIndexAdapter creates the indices adapter
func NewIndexAdapter(c *Client, indices []Instrument) *IndexAdapter {
	return &IndexAdapter{client: c, indices: indices}
}

// Name implements fetcher.Adapter
func (a *IndexAdapter) Name() string { return "alphavantage" }

// Fetch implements fetcher.Adapter
func (a *IndexAdapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	return collect(ctx, a.client, a.indices, func(i Instrument, price, change float64) domain.Record {
		return domain.NewIndex(i.Symbol, i.Name, price, change)
	})
}
