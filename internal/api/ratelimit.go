package api

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Scan requests fan out into many upstream RPC calls, so the POST /scan
// route carries a per-client token bucket. Defaults suit a small deployment
// behind one RPC key and can be raised via SCAN_RATE_PER_MIN and
// SCAN_RATE_BURST.
const (
	defaultScanRatePerMin = 10
	defaultScanBurst      = 3

	// Buckets idle past this are dropped the next time the map is swept.
	bucketIdleLimit = 10 * time.Minute
	// Sweep threshold: the map is cleaned when it grows past this many IPs.
	maxTrackedIPs = 1024
)

type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimiter is a per-IP token bucket. All state sits behind one mutex;
// the map is swept opportunistically instead of by a background goroutine,
// so an idle service holds no timers.
type RateLimiter struct {
	ratePerSec float64
	burst      float64

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewRateLimiter allows ratePerMin requests per minute per IP with the
// given burst capacity.
func NewRateLimiter(ratePerMin, burst int) *RateLimiter {
	return &RateLimiter{
		ratePerSec: float64(ratePerMin) / 60.0,
		burst:      float64(burst),
		buckets:    make(map[string]*bucket),
		now:        time.Now,
	}
}

// NewScanRateLimiter builds the limiter for the scan route from
// SCAN_RATE_PER_MIN and SCAN_RATE_BURST, falling back to the defaults.
func NewScanRateLimiter() *RateLimiter {
	return NewRateLimiter(
		envInt("SCAN_RATE_PER_MIN", defaultScanRatePerMin),
		envInt("SCAN_RATE_BURST", defaultScanBurst),
	)
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

// allow consumes one token for ip, reporting the wait until the next token
// when the bucket is empty.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[ip]
	if !ok {
		if len(rl.buckets) >= maxTrackedIPs {
			rl.sweep(now)
		}
		b = &bucket{tokens: rl.burst}
		rl.buckets[ip] = b
	} else {
		b.tokens += now.Sub(b.last).Seconds() * rl.ratePerSec
		if b.tokens > rl.burst {
			b.tokens = rl.burst
		}
	}
	b.last = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1.0 - b.tokens) / rl.ratePerSec * float64(time.Second))
	return false, wait
}

// sweep drops buckets idle past bucketIdleLimit. Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-bucketIdleLimit)
	for ip, b := range rl.buckets {
		if b.last.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

// Middleware rejects over-limit requests with 429 and a Retry-After header
// in whole seconds, per the HTTP convention.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, wait := rl.allow(c.ClientIP())
		if !allowed {
			seconds := int(wait/time.Second) + 1
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "scan rate limit exceeded",
				"retryAfter": fmt.Sprintf("%ds", seconds),
			})
			return
		}
		c.Next()
	}
}
