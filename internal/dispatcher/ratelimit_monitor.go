package dispatcher

import (
	"strconv"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

type rateLimitBucket struct {
	remaining int
	resetAt   time.Time
}

// RateLimitMonitor tracks Discord rate-limit headers per route so workers can
// hold a job instead of burning an attempt on a guaranteed 429.
type RateLimitMonitor struct {
	mu      sync.RWMutex
	buckets map[string]*rateLimitBucket
}

func NewRateLimitMonitor() *RateLimitMonitor {
	return &RateLimitMonitor{
		buckets: make(map[string]*rateLimitBucket),
	}
}

func (rlm *RateLimitMonitor) CanExecute(route, guildID string) bool {
	key := route + ":" + guildID

	rlm.mu.RLock()
	bucket, exists := rlm.buckets[key]
	rlm.mu.RUnlock()

	if !exists || time.Now().After(bucket.resetAt) {
		return true
	}
	return bucket.remaining > 0
}

// Observe updates the bucket from a Discord REST response.
func (rlm *RateLimitMonitor) Observe(resp *fasthttp.Response, route, guildID string) {
	bucket := &rateLimitBucket{remaining: 1}

	if remaining := string(resp.Header.Peek("X-RateLimit-Remaining")); remaining != "" {
		bucket.remaining, _ = strconv.Atoi(remaining)
	}
	if reset := string(resp.Header.Peek("X-RateLimit-Reset")); reset != "" {
		resetUnix, _ := strconv.ParseFloat(reset, 64)
		bucket.resetAt = time.Unix(int64(resetUnix), 0)
	}
	if resp.StatusCode() == fasthttp.StatusTooManyRequests {
		bucket.remaining = 0
		if retry := string(resp.Header.Peek("Retry-After")); retry != "" {
			secs, _ := strconv.ParseFloat(retry, 64)
			bucket.resetAt = time.Now().Add(time.Duration(secs * float64(time.Second)))
		}
	}

	rlm.mu.Lock()
	rlm.buckets[route+":"+guildID] = bucket
	rlm.mu.Unlock()
}
