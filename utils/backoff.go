package utils

import (
	"fmt"
	"time"
)

// Backoff drives a capped retry loop with exponentially growing delays.
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do calls fn until it reports done, returns an error, or attempts run
// out. A (false, nil) result means "not yet, try again after a delay" —
// the delay doubles on every retry.
func (b *Backoff) Do(operationName string, fn func() (done bool, err error)) error {
	delay := b.BaseDelay

	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		done, err := fn()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if attempt < b.MaxAttempts {
			b.Logger.Warn("[retry] %s throttled (attempt %d/%d) — retrying in %v",
				operationName, attempt, b.MaxAttempts, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s still throttled after %d attempts", operationName, b.MaxAttempts)
}
