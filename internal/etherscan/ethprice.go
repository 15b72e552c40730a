// Package etherscan is the secondary crypto source. It derives ETH and BTC USD
// prices from the Etherscan ETH price statistics.
package etherscan

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"resty.dev/v3"

	"dashboardfetcher/internal/coingecko"
	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/ratelimit"
)

// envelope is the common Etherscan response. Result is an object on success
// and an error string otherwise.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// ethPrice is the stats/ethprice result
type ethPrice struct {
	EthBTC          string `json:"ethbtc"`
	EthBTCTimestamp string `json:"ethbtc_timestamp"`
	EthUSD          string `json:"ethusd"`
	EthUSDTimestamp string `json:"ethusd_timestamp"`
}

// Options configures the adapter
type Options struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	IDs          []string
	Placeholders []string
	Limiter      *ratelimit.Limiter
}

// Adapter yields crypto quotes for the configured coin ids. Only ethereum and
// bitcoin can be priced; other ids get a zero quote, like a missing id upstream.
type Adapter struct {
	apiKey       string
	ids          []string
	placeholders []string
	client       *resty.Client
	limiter      *ratelimit.Limiter
}

// New creates an Etherscan adapter
func New(opts Options) *Adapter {
	return &Adapter{
		apiKey:       opts.APIKey,
		ids:          opts.IDs,
		placeholders: opts.Placeholders,
		client:       fetcher.NewHTTPClient(opts.BaseURL, opts.Timeout),
		limiter:      opts.Limiter,
	}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string { return "etherscan" }

// fetchEthPrice gets the current ETH/USD and ETH/BTC rates
func (a *Adapter) fetchEthPrice(ctx context.Context) (usd, btc float64, err error) {
	if err := a.limiter.Wait(ctx, ratelimit.APIEtherscan); err != nil {
		return 0, 0, fetcher.NewTimeoutError(err)
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"chainid": "1",
			"module":  "stats",
			"action":  "ethprice",
			"apikey":  a.apiKey,
		}).
		Get("")

	body, err := fetcher.Body(resp, err)
	if err != nil {
		return 0, 0, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, 0, fetcher.NewMalformedError("decode etherscan response: " + err.Error())
	}
	if env.Status != "1" {
		return 0, 0, fetcher.NewMalformedError("etherscan returned " + env.Message + ": " + string(env.Result))
	}

	var price ethPrice
	if err := json.Unmarshal(env.Result, &price); err != nil {
		return 0, 0, fetcher.NewMalformedError("decode ETH price: " + err.Error())
	}

	usd, err = strconv.ParseFloat(price.EthUSD, 64)
	if err != nil || usd <= 0 {
		return 0, 0, fetcher.NewMalformedError("ETH price not found in response")
	}
	btc, err = strconv.ParseFloat(price.EthBTC, 64)
	if err != nil {
		return 0, 0, fetcher.NewMalformedError("ETH/BTC rate not found in response")
	}

	return usd, btc, nil
}

// Fetch implements fetcher.Adapter. The stats endpoint carries no 24h change,
// so every quote reports a change of 0.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	if fetcher.IsPlaceholderCredential(a.apiKey, a.placeholders) {
		return nil, fetcher.NewCredentialError("etherscan")
	}
	if len(a.ids) == 0 {
		return nil, fetcher.NewMalformedError("no coin ids configured")
	}

	ethUSD, ethBTC, err := a.fetchEthPrice(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(a.ids))
	for _, id := range a.ids {
		var price float64
		switch id {
		case "ethereum":
			price = ethUSD
		case "bitcoin":
			if ethBTC > 0 {
				price = ethUSD / ethBTC
			}
		}
		records = append(records, domain.NewQuote(coingecko.Symbol(id), coingecko.DisplayName(id), price, "$", 0))
	}
	return records, nil
}
