// Package coingecko queries the CoinGecko simple price endpoint.
package coingecko

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/ratelimit"
)

// KnownSymbols maps common coin ids to their ticker
var KnownSymbols = map[string]string{
	"bitcoin":     "BTC",
	"ethereum":    "ETH",
	"binancecoin": "BNB",
	"cardano":     "ADA",
	"solana":      "SOL",
	"ripple":      "XRP",
	"dogecoin":    "DOGE",
}

// coinPrice is one entry of the simple/price response. Fields are pointers
// because the provider omits them for unknown ids.
type coinPrice struct {
	USD       *float64 `json:"usd"`
	Change24h *float64 `json:"usd_24h_change"`
}

// Options configures the adapter
type Options struct {
	BaseURL string
	Timeout time.Duration
	IDs     []string
	// Symbols overrides KnownSymbols per id
	Symbols map[string]string
	Limiter *ratelimit.Limiter
}

// Adapter fetches USD prices and 24h change for a list of coin ids
type Adapter struct {
	client  *resty.Client
	ids     []string
	symbols map[string]string
	limiter *ratelimit.Limiter
}

// New creates a CoinGecko adapter. No API key is required.
func New(opts Options) *Adapter {
	return &Adapter{
		client:  fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout),
		ids:     opts.IDs,
		symbols: opts.Symbols,
		limiter: opts.Limiter,
	}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string { return "coingecko" }

// Raw returns the provider body for a comma-separated id list
func (a *Adapter) Raw(ctx context.Context, ids string) ([]byte, error) {
	if err := a.limiter.Wait(ctx, ratelimit.APICoinGecko); err != nil {
		return nil, fetcher.NewTimeoutError(err)
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":                 ids,
			"vs_currencies":       "usd",
			"include_24hr_change": "true",
		}).
		Get("/simple/price")

	return fetcher.Body(resp, err)
}

// Fetch retrieves one quote per configured id, in configured order
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	if len(a.ids) == 0 {
		return nil, fetcher.NewMalformedError("no coin ids configured")
	}

	body, err := a.Raw(ctx, strings.Join(a.ids, ","))
	if err != nil {
		return nil, err
	}

	var prices map[string]coinPrice
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, fetcher.NewMalformedError("decode coingecko prices: " + err.Error())
	}

	records := make([]domain.Record, 0, len(a.ids))
	for _, id := range a.ids {
		// A missing id yields a zero quote rather than failing the batch
		p := prices[id]
		records = append(records, domain.NewQuote(a.symbol(id), DisplayName(id), deref(p.USD), "$", deref(p.Change24h)))
	}
	return records, nil
}

func (a *Adapter) symbol(id string) string {
	if s, ok := a.symbols[id]; ok && s != "" {
		return s
	}
	return Symbol(id)
}

// Symbol returns the known ticker for id, else its first three letters upper-cased
func Symbol(id string) string {
	if s, ok := KnownSymbols[id]; ok {
		return s
	}
	r := []rune(strings.ToUpper(id))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// DisplayName capitalizes the first letter of id
func DisplayName(id string) string {
	r := []rune(id)
	if len(r) == 0 {
		return ""
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
