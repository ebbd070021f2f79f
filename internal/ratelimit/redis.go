package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is a Limiter backed by a shared Redis instance, for deployments
// running more than one server process. Same fixed-window semantics as
// FixedWindow: INCR per request, with the key expiring at the window
// boundary opened by the first request.
type Redis struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

// NewRedis returns a Redis-backed limiter. The caller owns the client.
func NewRedis(client *redis.Client, max int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		max:    max,
		window: window,
		prefix: "folio:ratelimit:",
	}
}

// Allow increments the counter for key and reports whether it is within the
// ceiling. A Redis error fails open at the caller's discretion via the
// returned error.
func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// First hit in this window: open the bucket.
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(l.max), nil
}
