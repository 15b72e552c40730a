package fetcher

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind represents the category of error that occurred during a fetch operation
type ErrorKind string

const (
	// KindNetwork indicates a network-level error (connection refused, DNS, etc.)
	KindNetwork ErrorKind = "network_unavailable"
	// KindUpstreamHTTP indicates the provider answered with a non-success status
	KindUpstreamHTTP ErrorKind = "upstream_http"
	// KindMalformed indicates the response was received but its shape was unusable
	KindMalformed ErrorKind = "malformed_response"
	// KindCredentialMissing indicates the adapter has no usable API key
	KindCredentialMissing ErrorKind = "credential_missing"
	// KindTimeout indicates the request exceeded its deadline
	KindTimeout ErrorKind = "timeout"
	// KindCircuitOpen indicates the provider's circuit breaker rejected the call
	KindCircuitOpen ErrorKind = "circuit_open"
	// KindUnknown indicates an error of unknown type
	KindUnknown ErrorKind = "unknown"
)

// FetchError represents a structured error from a fetch operation
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether another attempt against the same provider may succeed.
// Only network errors, timeouts and 5xx responses qualify.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindUpstreamHTTP:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Kind:    KindNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Kind:    KindTimeout,
		Message: "request timed out",
		Cause:   cause,
	}
}

// NewHTTPError creates an upstream status error
func NewHTTPError(statusCode int) *FetchError {
	return &FetchError{
		Kind:       KindUpstreamHTTP,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("provider returned HTTP %d", statusCode),
	}
}

// NewMalformedError creates a response-shape error
func NewMalformedError(message string) *FetchError {
	return &FetchError{
		Kind:    KindMalformed,
		Message: message,
	}
}

// NewCredentialError creates an error for an adapter with no usable key
func NewCredentialError(provider string) *FetchError {
	return &FetchError{
		Kind:    KindCredentialMissing,
		Message: fmt.Sprintf("%s API key is not configured", provider),
	}
}

// NewCircuitOpenError creates an error for a call rejected by an open breaker
func NewCircuitOpenError(name string, cause error) *FetchError {
	return &FetchError{
		Kind:    KindCircuitOpen,
		Message: fmt.Sprintf("circuit %s is open", name),
		Cause:   cause,
	}
}

// KindOf returns the ErrorKind of err, or KindUnknown for foreign errors
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether err is a retryable *FetchError
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable()
	}
	return false
}

// DefaultPlaceholders are credential values shipped in sample configs
var DefaultPlaceholders = []string{"demo", "your_api_key", "changeme"}

// IsPlaceholderCredential reports whether key is empty or one of placeholders
func IsPlaceholderCredential(key string, placeholders []string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}
	for _, p := range placeholders {
		if strings.EqualFold(key, p) {
			return true
		}
	}
	return false
}
