package ethrequest

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

var (
	retryDelays         = []time.Duration{500 * time.Millisecond, 2 * time.Second, 8 * time.Second}
	retryContextTimeout = 30 * time.Second
)

func defaultRetryOpts(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return retryDelays[min(int(n), len(retryDelays)-1)]
		}),
		retry.Attempts(uint(len(retryDelays) + 1)),
		retry.LastErrorOnly(true),
	}
}

type retryCallback[T any] func(ctx context.Context) (T, error)

// Retry calls callback until it succeeds, each attempt bounded by its own timeout.
// Only use it for reads, never for sends.
func Retry[T any](ctx context.Context, callback retryCallback[T], opts ...retry.Option) (T, error) {
	var returnValue T
	var err error

	err = retry.Do(func() error {
		rctx, cancel := context.WithTimeout(ctx, retryContextTimeout)
		defer cancel()

		returnValue, err = callback(rctx)

		return err
	}, append(defaultRetryOpts(ctx), opts...)...)

	return returnValue, err
}
