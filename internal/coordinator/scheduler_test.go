package coordinator

import (
	"context"
	"testing"
	"time"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
	"dashboardfetcher/internal/testutil"
)

func TestNewScheduler_RejectsShortInterval(t *testing.T) {
	coord := New(map[domain.Domain]Pipeline{})
	if _, err := NewScheduler(coord, 10*time.Millisecond); err == nil {
		t.Error("NewScheduler() expected error for sub-second interval")
	}
}

func TestScheduler_InitialRefreshAndStop(t *testing.T) {
	mock := testutil.NewStaticMock(testutil.Quote("BTC", 1))
	coord := New(map[domain.Domain]Pipeline{domain.Crypto: fetcher.NewChain(domain.Crypto, mock)})

	sched, err := NewScheduler(coord, time.Hour)
	if err != nil {
		t.Fatalf("NewScheduler() returned unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done, err := sched.Start(ctx)
	if err != nil {
		t.Fatalf("Start() returned unexpected error: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for coord.State(domain.Crypto).Phase != PhaseUpdated {
		if time.Now().After(deadline) {
			t.Fatal("initial refresh did not complete")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	if mock.Calls() != 1 {
		t.Errorf("calls = %d, want 1", mock.Calls())
	}
}
