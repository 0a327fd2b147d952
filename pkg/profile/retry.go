package profile

import (
	"context"
	"time"

	"github.com/matzehuels/snapline/pkg/errors"
)

// retryDelay is the first pause between connection attempts.
var retryDelay = 250 * time.Millisecond

// retry runs fn up to attempts times with exponential backoff. Only
// storage errors (unreachable server, failed ping) are retried; anything
// else, such as a malformed URL, is returned immediately. Returns the last
// error if all attempts fail, or ctx.Err() if cancelled.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.Retryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
