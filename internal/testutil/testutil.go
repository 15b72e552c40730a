package testutil

import (
	"context"
	"sync/atomic"

	"dashboardfetcher/internal/domain"
	"dashboardfetcher/internal/fetcher"
)

// MockAdapter is a mock implementation of the fetcher.Adapter interface for testing
type MockAdapter struct {
	AdapterName string
	FetchFunc   func(ctx context.Context) ([]domain.Record, error)
	// StaticContent makes the mock behave like the static content provider
	StaticContent bool

	calls atomic.Int32
}

// Name implements the fetcher.Adapter interface
func (m *MockAdapter) Name() string {
	if m.AdapterName != "" {
		return m.AdapterName
	}
	return "mock"
}

// Fetch implements the fetcher.Adapter interface
func (m *MockAdapter) Fetch(ctx context.Context) ([]domain.Record, error) {
	m.calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return nil, nil
}

// Static implements fetcher.StaticAdapter
func (m *MockAdapter) Static() bool {
	return m.StaticContent
}

// Calls returns how many times Fetch was invoked
func (m *MockAdapter) Calls() int {
	return int(m.calls.Load())
}

// NewMockAdapter creates a simple mock adapter with predefined results
func NewMockAdapter(name string, records []domain.Record, err error) *MockAdapter {
	return &MockAdapter{
		AdapterName: name,
		FetchFunc: func(ctx context.Context) ([]domain.Record, error) {
			return records, err
		},
	}
}

// NewStaticMock creates a mock that always succeeds and is tagged as canned content
func NewStaticMock(records ...domain.Record) *MockAdapter {
	m := NewMockAdapter("static", records, nil)
	m.StaticContent = true
	return m
}

// Quote is a convenience record for tests
func Quote(symbol string, price float64) domain.Record {
	return domain.NewQuote(symbol, symbol, price, "$", 0)
}

var _ fetcher.StaticAdapter = (*MockAdapter)(nil)
