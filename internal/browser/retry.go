package browser

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Retry повторяет действие с экспоненциальной задержкой, не более maxTries раз
func Retry[T any](ctx context.Context, log *zap.Logger, maxTries uint, delay time.Duration, op func() (T, error)) (T, error) {
	if maxTries == 0 {
		maxTries = 1
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = delay
	policy.MaxInterval = delay * 10

	attempt := uint(0)
	notify := func(err error, d time.Duration) {
		attempt++
		log.Warn("Retrying after error",
			zap.Uint("attempt", attempt),
			zap.Uint("max_tries", maxTries),
			zap.Duration("backoff", d),
			zap.Error(err))
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(maxTries),
		backoff.WithNotify(notify))
}
