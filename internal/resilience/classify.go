// Package resilience keeps flaky search backends from poisoning a
// verification run: transient failures are retried with backoff, and a
// backend that keeps failing is cut off by a per-provider breaker so it
// stops burning its fanout slot's timeout budget.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError marks a failure as worth retrying, optionally carrying
// the HTTP status that caused it.
type TransientError struct {
	Err    error
	Status int
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retryable with the given HTTP status.
func Transient(err error, status int) error {
	return &TransientError{Err: err, Status: status}
}

// retryableStatuses are the HTTP statuses the provider clients fold
// into their error messages ("brave: search request: status 429") that
// indicate throttling or a server-side fault rather than a bad request.
var retryableStatuses = []string{
	"status 408",
	"status 429",
	"status 500",
	"status 502",
	"status 503",
	"status 504",
}

// networkFaults are message fragments from wrapped transport errors
// that a retry has a real chance of clearing.
var networkFaults = []string{
	"connection reset by peer",
	"broken pipe",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
}

// Retryable reports whether a provider call failure is worth another
// attempt. Explicit TransientError wrapping wins; otherwise the error
// chain and message are checked for network faults and the throttling
// or 5xx statuses the search clients report.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range retryableStatuses {
		if strings.Contains(msg, s) {
			return true
		}
	}
	for _, f := range networkFaults {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}
