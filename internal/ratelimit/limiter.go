// Package ratelimit throttles requests per client key with a fixed window
// counter kept in memory or in Redis.
package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type Limiter struct {
	store  Store
	max    int64
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: int64(max), window: window}
}

// Allow reports whether the hit is within budget. A store error is logged and
// the request is let through.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		slog.WarnContext(ctx, "rate limiter store unavailable, allowing request",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return true
	}
	return count <= l.max
}

func (l *Limiter) RetryAfterSeconds() int {
	return int(math.Ceil(l.window.Seconds()))
}

// Middleware limits by client IP. Every route it is mounted on draws from the
// same per-IP budget.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.Allow(c.UserContext(), "ip:"+c.IP()) {
			return c.Next()
		}

		retry := l.RetryAfterSeconds()
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
		return autherror.NewTooManyRequests(retry)
	}
}
