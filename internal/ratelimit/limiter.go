package ratelimit

import (
	"context"
	"time"
)

// Limiter bounds best-effort per-source request rates. Allow reports whether
// the request identified by key fits within limit for the current window;
// Reset clears the counter for key (called after a successful login).
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}
