package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/lacupula/imperium/internal/model"
)

// RateLimiter is a token-bucket limiter keyed by caller. Buckets refill
// proportionally to elapsed time within the window and idle buckets are
// reaped by a background loop until Stop is called.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	rate    int           // tokens granted per window
	window  time.Duration // refill window
	burst   int           // extra tokens on top of rate
	cleanup time.Duration // reap interval for idle buckets

	stopChan chan struct{}
}

type bucket struct {
	tokens   int
	refillAt time.Time
}

// RateLimitConfig holds rate limiter configuration. Zero values fall
// back to 100 requests per minute with a burst of 20.
type RateLimitConfig struct {
	Rate    int
	Window  time.Duration
	Burst   int
	Cleanup time.Duration
}

// NewRateLimiter creates a rate limiter and starts its reaper goroutine.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate == 0 {
		cfg.Rate = 100
	}
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst == 0 {
		cfg.Burst = 20
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = 5 * time.Minute
	}

	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		window:   cfg.Window,
		burst:    cfg.Burst,
		cleanup:  cfg.Cleanup,
		stopChan: make(chan struct{}),
	}
	go rl.reapLoop()
	return rl
}

// Stop terminates the reaper goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopChan)
}

func (rl *RateLimiter) capacity() int {
	return rl.rate + rl.burst
}

func (rl *RateLimiter) reapLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.reapIdle()
		case <-rl.stopChan:
			return
		}
	}
}

// reapIdle drops buckets untouched for two full windows; a dropped key
// simply starts over at full capacity on its next request.
func (rl *RateLimiter) reapIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-2 * rl.window)
	for key, b := range rl.buckets {
		if b.refillAt.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Allow consumes a token for key and reports whether the request may
// proceed, along with the remaining tokens and when the bucket resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, resetTime time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity() - 1, refillAt: now}
		rl.buckets[key] = b
		return true, b.tokens, now.Add(rl.window)
	}

	elapsed := now.Sub(b.refillAt)
	switch {
	case elapsed >= rl.window:
		b.tokens = rl.capacity()
		b.refillAt = now
	default:
		refill := int(float64(rl.rate) * (float64(elapsed) / float64(rl.window)))
		if refill > 0 {
			b.tokens = min(b.tokens+refill, rl.capacity())
			b.refillAt = now
		}
	}

	reset := b.refillAt.Add(rl.window)
	if b.tokens == 0 {
		return false, 0, reset
	}
	b.tokens--
	return true, b.tokens, reset
}

// RateLimit limits requests per authenticated user, falling back to the
// remote address for anonymous callers. Limit state is exposed through
// the X-RateLimit-* headers; rejections carry Retry-After.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}

			allowed, remaining, resetTime := limiter.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.rate))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				retryAfter := int(time.Until(resetTime).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
