package fetcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dashboardfetcher/internal/domain"
)

type staticFunc struct {
	AdapterFunc
}

func (staticFunc) Static() bool { return true }

func okAdapter(name string, calls *int) Adapter {
	return AdapterFunc{
		AdapterName: name,
		FetchFunc: func(ctx context.Context) ([]domain.Record, error) {
			if calls != nil {
				*calls++
			}
			return []domain.Record{domain.NewIndex("^GSPC", "S&P 500", 4783.45, 0.75)}, nil
		},
	}
}

func failAdapter(name string, err error, calls *int) Adapter {
	return AdapterFunc{
		AdapterName: name,
		FetchFunc: func(ctx context.Context) ([]domain.Record, error) {
			if calls != nil {
				*calls++
			}
			return nil, err
		},
	}
}

func staticAdapter() Adapter {
	return staticFunc{AdapterFunc: AdapterFunc{
		AdapterName: "static",
		FetchFunc: func(ctx context.Context) ([]domain.Record, error) {
			return []domain.Record{domain.NewIndex("^FCHI", "CAC 40", 7589.32, -0.23)}, nil
		},
	}}
}

func TestChain_FirstSuccessIsLive(t *testing.T) {
	secondCalls := 0
	chain := NewChain(domain.Indices,
		okAdapter("alphavantage", nil),
		okAdapter("secondary", &secondCalls),
		staticAdapter(),
	)

	out := chain.Run(context.Background())
	if !out.OK() {
		t.Fatalf("Run() failed: %v", out.Err)
	}
	if out.Source != SourceLive {
		t.Errorf("Source = %q, want %q", out.Source, SourceLive)
	}
	if out.Adapter != "alphavantage" {
		t.Errorf("Adapter = %q, want alphavantage", out.Adapter)
	}
	if secondCalls != 0 {
		t.Errorf("secondary adapter called %d times after a success", secondCalls)
	}
}

func TestChain_SecondaryIsFallback(t *testing.T) {
	chain := NewChain(domain.Crypto,
		failAdapter("coingecko", NewHTTPError(503), nil),
		okAdapter("etherscan", nil),
		staticAdapter(),
	)

	out := chain.Run(context.Background())
	if out.Source != SourceFallback {
		t.Errorf("Source = %q, want %q", out.Source, SourceFallback)
	}
}

// Every chain ending in static content succeeds no matter how the live
// adapters fail.
func TestChain_Totality(t *testing.T) {
	failures := []error{
		NewNetworkError(errors.New("connection refused")),
		NewTimeoutError(context.DeadlineExceeded),
		NewHTTPError(500),
		NewHTTPError(401),
		NewMalformedError("missing articles"),
		NewCredentialError("newsapi"),
		errors.New("foreign error"),
	}

	for _, d := range domain.AllDomains() {
		for _, f := range failures {
			adapters := []Adapter{
				failAdapter("primary", f, nil),
				failAdapter("secondary", f, nil),
				staticAdapter(),
			}
			out := NewChain(d, adapters...).Run(context.Background())
			if !out.OK() {
				t.Errorf("%s/%v: Run() failed: %v", d, f, out.Err)
				continue
			}
			if out.Source != SourceMock {
				t.Errorf("%s/%v: Source = %q, want %q", d, f, out.Source, SourceMock)
			}
		}
	}
}

func TestChain_AllFailAggregates(t *testing.T) {
	errA := NewCredentialError("openweather")
	errB := NewHTTPError(502)
	chain := NewChain(domain.Weather,
		failAdapter("openweather", errA, nil),
		failAdapter("backup", errB, nil),
	)

	out := chain.Run(context.Background())
	if out.OK() {
		t.Fatal("Run() succeeded, want failure")
	}

	var ce *ChainError
	if !errors.As(out.Err, &ce) {
		t.Fatalf("error type = %T, want *ChainError", out.Err)
	}
	if len(ce.Attempts) != 2 {
		t.Errorf("len(Attempts) = %d, want 2", len(ce.Attempts))
	}
	if !errors.Is(out.Err, errA) || !errors.Is(out.Err, errB) {
		t.Errorf("ChainError does not unwrap to attempt errors: %v", out.Err)
	}
	if !strings.Contains(out.Err.Error(), "openweather") {
		t.Errorf("Error() = %q, want adapter names", out.Err.Error())
	}
}

func TestChain_EmptyLiveResultFallsThrough(t *testing.T) {
	empty := AdapterFunc{
		AdapterName: "newsapi",
		FetchFunc: func(ctx context.Context) ([]domain.Record, error) {
			return nil, nil
		},
	}

	out := NewChain(domain.NewsAI, empty, staticAdapter()).Run(context.Background())
	if out.Source != SourceMock {
		t.Errorf("Source = %q, want %q", out.Source, SourceMock)
	}
}

func TestChain_PanickingAdapterIsContained(t *testing.T) {
	boom := AdapterFunc{
		AdapterName: "boom",
		FetchFunc: func(ctx context.Context) ([]domain.Record, error) {
			panic("nil map")
		},
	}

	out := NewChain(domain.Stocks, boom, staticAdapter()).Run(context.Background())
	if !out.OK() || out.Source != SourceMock {
		t.Errorf("Run() = %+v, want mock success", out)
	}
}

func TestChain_NoAdapters(t *testing.T) {
	out := NewChain(domain.Stocks).Run(context.Background())
	if out.OK() {
		t.Fatal("Run() with no adapters succeeded")
	}
	if !strings.Contains(out.Err.Error(), "no adapters") {
		t.Errorf("Error() = %q", out.Err.Error())
	}
}

func TestFailure_NilError(t *testing.T) {
	if Failure(nil).OK() {
		t.Error("Failure(nil).OK() = true")
	}
}
