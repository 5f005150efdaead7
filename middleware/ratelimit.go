package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	sweepEvery = 5 * time.Minute
	bucketIdle = 10 * time.Minute
)

type bucket struct {
	tokens float64
	seen   time.Time
}

// RateLimiter is a token bucket per session (or per client IP when no
// session was resolved). It guards the payment endpoint.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	burst    float64
	perSec   float64
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows maxRequests per window, all of which may be spent at once.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		burst:   float64(maxRequests),
		perSec:  float64(maxRequests) / window.Seconds(),
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if now.Sub(b.seen) > bucketIdle {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// take spends one token for key. When the bucket is empty it reports how
// long until the next token is available.
func (rl *RateLimiter) take(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.burst, seen: now}
		rl.buckets[key] = b
	}
	b.tokens = math.Min(rl.burst, b.tokens+now.Sub(b.seen).Seconds()*rl.perSec)
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if rl.perSec <= 0 {
		return false, time.Minute
	}
	wait := time.Duration((1 - b.tokens) / rl.perSec * float64(time.Second))
	return false, wait
}

func (rl *RateLimiter) allow(key string) bool {
	ok, _ := rl.take(key, time.Now())
	return ok
}

// limitKey buckets by session when one was resolved, otherwise by client IP.
func limitKey(c *gin.Context) string {
	if id := c.GetString(sessionIDKey); id != "" {
		return "session:" + id
	}
	return "ip:" + c.ClientIP()
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.take(limitKey(c), time.Now())
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many payment attempts. Please try again shortly."})
			return
		}
		c.Next()
	}
}
