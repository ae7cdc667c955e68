package ratelimit

import (
	"context"
	"time"

	"sheworks/pkg/logger"
	"sheworks/pkg/safego"
)

// Store counts hits per key inside a fixed window.
type Store interface {
	// Hit records one hit. A key whose window has elapsed starts a new window at now.
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (count int, resetAt time.Time, err error)
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter allows at most limit actions per key and window.
type RateLimiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a fixed-window limiter over store.
func NewRateLimiter(store Store, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

// Allow charges one hit to identity:action. Throttled calls carry the time left
// until the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, identity, action string) (Decision, error) {
	now := rl.now()
	count, resetAt, err := rl.store.Hit(ctx, identity+":"+action, rl.window, now)
	if err != nil {
		return Decision{}, err
	}

	if count > rl.limit {
		retryAfter := resetAt.Sub(now)
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		if retryAfter > rl.window {
			retryAfter = rl.window
		}
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	return Decision{Allowed: true, Remaining: rl.limit - count}, nil
}

// Cleaner is implemented by stores that keep expired windows around.
type Cleaner interface {
	Cleanup(now time.Time) int
}

// StartCleanupRoutine periodically drops expired windows until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	cleaner, ok := rl.store.(Cleaner)
	if !ok {
		return
	}

	safego.Go("ratelimit-cleanup", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := cleaner.Cleanup(rl.now()); n > 0 {
					logger.Debug("Rate limiter dropped %d expired windows", n)
				}
			}
		}
	})
}
