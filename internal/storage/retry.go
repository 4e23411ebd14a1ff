package storage

import (
	"github.com/camachoroberto/daily-roulette/internal/apperr"
	"github.com/camachoroberto/daily-roulette/internal/logging"
)

// maxAttempts is the total attempt budget per storage call: one initial
// attempt plus two retries, with no backoff between them.
const maxAttempts = 3

type retrier struct {
	attempts int
}

func newRetrier(attempts int) *retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &retrier{attempts: attempts}
}

// do runs fn, retrying only connectivity-shaped failures. Any other error
// returns immediately. When retries exhaust, the last error is surfaced
// unchanged so the API layer can map it to DATABASE_UNAVAILABLE.
func (r *retrier) do(fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !apperr.IsConnectionError(lastErr) || attempt == r.attempts {
			return lastErr
		}
		if logging.Log != nil {
			logging.Log.WithField("attempt", attempt).
				Warnf("retrying storage call after connection failure: %v", lastErr)
		}
	}
	return lastErr
}
