package fetcher

import (
	"context"
	"testing"
	"time"
)

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	a := WithBreaker(failAdapter("coingecko-test", NewHTTPError(503), &calls),
		BreakerConfig{ConsecutiveFailures: 2, Cooldown: time.Hour})

	for i := 0; i < 2; i++ {
		if _, err := a.Fetch(context.Background()); KindOf(err) != KindUpstreamHTTP {
			t.Fatalf("call %d: KindOf = %q, want %q", i, KindOf(err), KindUpstreamHTTP)
		}
	}

	_, err := a.Fetch(context.Background())
	if KindOf(err) != KindCircuitOpen {
		t.Errorf("KindOf = %q, want %q", KindOf(err), KindCircuitOpen)
	}
	if calls != 2 {
		t.Errorf("underlying calls = %d, want 2", calls)
	}
}

func TestWithBreaker_CredentialErrorsDoNotTrip(t *testing.T) {
	calls := 0
	a := WithBreaker(failAdapter("newsapi-test", NewCredentialError("newsapi"), &calls),
		BreakerConfig{ConsecutiveFailures: 1, Cooldown: time.Hour})

	for i := 0; i < 3; i++ {
		if _, err := a.Fetch(context.Background()); KindOf(err) != KindCredentialMissing {
			t.Errorf("call %d: KindOf = %q, want %q", i, KindOf(err), KindCredentialMissing)
		}
	}
	if calls != 3 {
		t.Errorf("underlying calls = %d, want 3", calls)
	}
}

func TestWithBreaker_Disabled(t *testing.T) {
	inner := okAdapter("alphavantage", nil)
	if got := WithBreaker(inner, BreakerConfig{}); got.Name() != inner.Name() {
		t.Errorf("Name() = %q", got.Name())
	}
}
