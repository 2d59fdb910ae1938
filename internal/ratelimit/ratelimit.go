// Package ratelimit provides a keyed rate limiter using token bucket algorithm.
// Each client gets an independent bucket so one aggressive bidder cannot starve others.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	// sweepInterval is how often the cleanup goroutine scans for idle buckets.
	sweepInterval = time.Minute
	// idleTTL is how long a key may go unseen before its bucket is evicted.
	// An evicted client that returns simply gets a fresh full bucket.
	idleTTL = 3 * time.Minute
)

// clientLimiter pairs a bucket with its last access time for eviction.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int

	// Cleanup
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go krl.cleanup()

	return krl
}

// PerMinute creates a limiter that allows n requests per minute per key,
// with a burst equal to n so a quiet client is never penalized mid-minute.
func PerMinute(n int) *KeyedRateLimiter {
	return New(float64(n)/time.Minute.Seconds(), n)
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or context is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now().UnixNano()

	// Fast path: read lock
	krl.mu.RLock()
	cl, exists := krl.limiters[key]
	krl.mu.RUnlock()

	if exists {
		cl.lastSeen.Store(now)
		return cl.limiter
	}

	// Slow path: write lock to create
	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Double-check after acquiring write lock
	if cl, exists = krl.limiters[key]; exists {
		cl.lastSeen.Store(now)
		return cl.limiter
	}

	cl = &clientLimiter{limiter: rate.NewLimiter(krl.limit, krl.burst)}
	cl.lastSeen.Store(now)
	krl.limiters[key] = cl
	return cl.limiter
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// cleanup evicts idle buckets on a ticker until stopped.
func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			krl.evictIdle(time.Now())
		}
	}
}

// evictIdle removes buckets not seen since now minus idleTTL.
func (krl *KeyedRateLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-idleTTL).UnixNano()

	krl.mu.Lock()
	defer krl.mu.Unlock()

	for key, cl := range krl.limiters {
		if cl.lastSeen.Load() < cutoff {
			delete(krl.limiters, key)
		}
	}
}

// size reports the number of tracked keys. Test hook.
func (krl *KeyedRateLimiter) size() int {
	krl.mu.RLock()
	defer krl.mu.RUnlock()
	return len(krl.limiters)
}
