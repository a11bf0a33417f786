// errors/upstream_errors.go
package errors

import "errors"

var (
	// ErrUpstreamUnavailable covers network failures, timeouts and 5xx
	// responses from the PhishStats API. Retryable.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamQuotaExceeded means the call budget for the current rate
	// window is spent, or the upstream answered 429. Not retryable within
	// the same window.
	ErrUpstreamQuotaExceeded = errors.New("upstream call quota exceeded")

	// ErrMalformedResponse means the upstream answered but the payload could
	// not be decoded or contained no valid incident. Treated as transient.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrNoDataAvailable is the only upstream-facing failure surfaced to
	// callers: all retries failed and no cached payload exists for the key.
	ErrNoDataAvailable = errors.New("no data available")
)
