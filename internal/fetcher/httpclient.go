package fetcher

import (
	"context"
	"errors"
	"net"
	"time"

	"resty.dev/v3"

	"dashboardfetcher/internal/logging"
)

// DefaultTimeout bounds every upstream request when the config sets none
const DefaultTimeout = 15 * time.Second

// NewHTTPClient creates a resty client for one provider.
// The client does not retry on its own: retries belong to the Retry Policy so
// that each attempt is visible to the chain and to metrics.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logging.NewRestyLogger())
}

// Classify converts a resty result into a *FetchError, or nil for a 2xx response
func Classify(resp *resty.Response, err error) error {
	if err != nil {
		if isTimeout(err) {
			return NewTimeoutError(err)
		}
		return NewNetworkError(err)
	}

	if resp == nil {
		return NewNetworkError(errors.New("no response"))
	}

	if !resp.IsSuccess() {
		return NewHTTPError(resp.StatusCode())
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Body returns the response body of a successful call or the classified error.
// An empty body is reported as malformed.
func Body(resp *resty.Response, err error) ([]byte, error) {
	if cerr := Classify(resp, err); cerr != nil {
		return nil, cerr
	}

	body := resp.Bytes()
	if len(body) == 0 {
		return nil, NewMalformedError("empty response body")
	}
	return body, nil
}
