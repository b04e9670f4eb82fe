package cache

import (
	"context"
	"fmt"
	"time"
)

// Remember is the typed form of Cache.Remember.
func Remember[T any](
	ctx context.Context,
	c Cache,
	key string,
	ttl time.Duration,
	producer func(context.Context) (T, error),
) (T, error) {
	var zero T

	v, err := c.Remember(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return producer(ctx)
	})
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: value under %q is %T, want %T", key, v, zero)
	}
	return out, nil
}
