package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"dashboardfetcher/internal/domain"
)

// fakeSleeper records requested delays without sleeping
type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return ctx.Err()
}

func (f *fakeSleeper) total() time.Duration {
	var sum time.Duration
	for _, d := range f.delays {
		sum += d
	}
	return sum
}

func failingUntil(n int, failure error, calls *int) func(context.Context) ([]domain.Record, error) {
	return func(ctx context.Context) ([]domain.Record, error) {
		*calls++
		if *calls < n {
			return nil, failure
		}
		return []domain.Record{domain.NewQuote("AAPL", "Apple", 185.92, "$", -0.3)}, nil
	}
}

func TestRetryConfig_Delay(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, Multiplier: 2}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 0},
		{2, 100 * time.Millisecond},
		{3, 200 * time.Millisecond},
		{4, 400 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := cfg.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestDefaultRetryConfig_Delays(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{2, time.Second},
		{3, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := cfg.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RetryConfig
		wantErr bool
	}{
		{"default", DefaultRetryConfig(), false},
		{"zero attempts", RetryConfig{MaxAttempts: 0, Multiplier: 1}, true},
		{"negative delay", RetryConfig{MaxAttempts: 1, BaseDelay: -time.Second, Multiplier: 1}, true},
		{"multiplier below one", RetryConfig{MaxAttempts: 1, Multiplier: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_SucceedsOnLastAttempt(t *testing.T) {
	tests := []struct {
		name       string
		cfg        RetryConfig
		succeedsOn int
	}{
		{"linear", RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 1}, 3},
		{"exponential", RetryConfig{MaxAttempts: 4, BaseDelay: 50 * time.Millisecond, Multiplier: 2}, 4},
		{"first try", RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleeper := &fakeSleeper{}
			calls := 0

			records, err := Retry(context.Background(), tt.cfg, sleeper.Sleep,
				failingUntil(tt.succeedsOn, serverError(), &calls))
			if err != nil {
				t.Fatalf("Retry() returned unexpected error: %v", err)
			}
			if len(records) != 1 {
				t.Errorf("len(records) = %d, want 1", len(records))
			}
			if calls != tt.succeedsOn {
				t.Errorf("calls = %d, want %d", calls, tt.succeedsOn)
			}

			var want time.Duration
			for attempt := 2; attempt <= tt.succeedsOn; attempt++ {
				want += tt.cfg.Delay(attempt)
			}
			if got := sleeper.total(); got != want {
				t.Errorf("total delay = %s, want %s", got, want)
			}
		})
	}
}

func TestRetry_NonRetryableShortCircuits(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"credential", NewCredentialError("openweather")},
		{"client error", NewHTTPError(404)},
		{"rate limited", NewHTTPError(429)},
		{"malformed", NewMalformedError("no articles")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleeper := &fakeSleeper{}
			calls := 0
			cfg := RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Multiplier: 2}

			_, err := Retry(context.Background(), cfg, sleeper.Sleep, failingUntil(10, tt.err, &calls))
			if !errors.Is(err, tt.err) {
				t.Errorf("Retry() error = %v, want %v", err, tt.err)
			}
			if calls != 1 {
				t.Errorf("calls = %d, want 1", calls)
			}
			if len(sleeper.delays) != 0 {
				t.Errorf("slept %v, want no delay", sleeper.delays)
			}
		})
	}
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond, Multiplier: 1}

	_, err := Retry(context.Background(), cfg, sleeper.Sleep, failingUntil(10, NewTimeoutError(context.DeadlineExceeded), &calls))
	if KindOf(err) != KindTimeout {
		t.Errorf("KindOf(err) = %q, want %q", KindOf(err), KindTimeout)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(sleeper.delays) != 2 {
		t.Errorf("delays = %v, want 2 entries", sleeper.delays)
	}
}

func TestRetry_CancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: time.Hour, Multiplier: 1}

	_, err := Retry(ctx, cfg, ContextSleep, failingUntil(10, NewNetworkError(errors.New("refused")), &calls))
	if KindOf(err) != KindTimeout {
		t.Errorf("KindOf(err) = %q, want %q", KindOf(err), KindTimeout)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_KeepsName(t *testing.T) {
	a := WithRetry(AdapterFunc{AdapterName: "newsapi"}, DefaultRetryConfig(), nil)
	if a.Name() != "newsapi" {
		t.Errorf("Name() = %q, want newsapi", a.Name())
	}
}

// serverError returns a retryable 503
func serverError() error {
	return NewHTTPError(503)
}
