package yahoo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
)

// retryPolicy is an exponential backoff for calls that do not go through resty
type retryPolicy struct {
	attempts int
	wait     time.Duration
	maxWait  time.Duration
}

// delay returns the wait before the given retry (1-based)
func (p retryPolicy) delay(retry int) time.Duration {
	d := p.wait
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= p.maxWait {
			return p.maxWait
		}
	}
	if d > p.maxWait {
		return p.maxWait
	}
	return d
}

func (p retryPolicy) do(ctx context.Context, log *logger.Logger, op string, fn func() error) error {
	attempts := p.attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := p.delay(attempt - 1)
			log.WithFields(map[string]interface{}{
				"operation": op,
				"attempt":   attempt,
				"wait":      wait.String(),
				"error":     lastErr.Error(),
			}).Warn("Retrying Yahoo Finance call")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		if err := fn(); err != nil {
			if errors.Is(err, ErrTickerNotFound) {
				return err
			}
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
