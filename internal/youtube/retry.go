package youtube

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig controls how Client retries transient failures.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig is suitable for caption and watch page requests.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// Do calls fn until it succeeds, returns an error that is not transient, or
// MaxRetries retries have been spent. fn receives the zero-based attempt.
func (rc RetryConfig) Do(ctx context.Context, fn func(attempt int) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(attempt)
		if err == nil || !transient(err) || attempt >= rc.MaxRetries {
			return err
		}

		wait := rc.backoff(attempt, err)
		slog.Debug("retrying request",
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
}

// backoff grows the wait by Multiplier per attempt, capped at MaxWait. A
// Retry-After hint from a 429 replaces the computed wait, still capped.
func (rc RetryConfig) backoff(attempt int, err error) time.Duration {
	wait := float64(rc.InitialWait)
	for range attempt {
		wait *= rc.Multiplier
	}
	d := time.Duration(wait)

	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > 0 {
		d = se.RetryAfter
	}
	if rc.MaxWait > 0 && d > rc.MaxWait {
		d = rc.MaxWait
	}
	return d
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	RetryAfter time.Duration
}

func newStatusError(resp *http.Response) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		se.RetryAfter = time.Duration(secs) * time.Second
	}
	return se
}

func (e *StatusError) Error() string {
	return "http status " + strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode)
}

// Is maps 429 to ErrTooManyRequests and 404/410 to ErrVideoUnavailable.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrTooManyRequests:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrVideoUnavailable:
		return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
	}
	return false
}

// transient reports whether another attempt may succeed. Rate limiting and
// server-side failures are transient. A missing video never is.
func transient(err error) bool {
	switch {
	case errors.Is(err, ErrTooManyRequests):
		return true
	case errors.Is(err, ErrVideoUnavailable), errors.Is(err, ErrBodyTooLarge):
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 && se.StatusCode != http.StatusNotImplemented
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsNotFound
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
