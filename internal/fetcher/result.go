package fetcher

import "dashboardfetcher/internal/domain"

// Source tells the consumer how fresh a successful outcome is
type Source string

const (
	// SourceLive is data from the domain's primary provider
	SourceLive Source = "live"
	// SourceFallback is data from a secondary provider
	SourceFallback Source = "fallback"
	// SourceMock is canned static content
	SourceMock Source = "mock"
)

// Outcome is the result of one domain pipeline run.
// Exactly one of (Records, Source) or Err is meaningful: Err == nil means success.
type Outcome struct {
	Records []domain.Record
	Source  Source
	// Adapter is the name of the adapter that produced Records
	Adapter string
	Err     error
}

// Success builds a successful Outcome
func Success(records []domain.Record, source Source, adapter string) Outcome {
	return Outcome{Records: records, Source: source, Adapter: adapter}
}

// Failure builds a failed Outcome
func Failure(err error) Outcome {
	if err == nil {
		err = &FetchError{Kind: KindUnknown, Message: "failure without cause"}
	}
	return Outcome{Err: err}
}

// OK reports whether the outcome is a success
func (o Outcome) OK() bool {
	return o.Err == nil
}
