package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyedLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterPool hands out one token bucket per key. Entries idle for 30
// minutes are dropped every 10 minutes until ctx is done.
type limiterPool[K comparable] struct {
	mu       sync.Mutex
	limiters map[K]*keyedLimiter
	rps      rate.Limit
	burst    int
}

func newLimiterPool[K comparable](ctx context.Context, requestsPerSecond float64, burst int) *limiterPool[K] {
	p := &limiterPool[K]{
		limiters: make(map[K]*keyedLimiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.mu.Lock()
				cutoff := time.Now().Add(-30 * time.Minute)
				for k, kl := range p.limiters {
					if kl.lastAccess.Before(cutoff) {
						delete(p.limiters, k)
					}
				}
				p.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}

func (p *limiterPool[K]) allow(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	kl, ok := p.limiters[key]
	if !ok {
		kl = &keyedLimiter{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.limiters[key] = kl
	}
	kl.lastAccess = time.Now()
	return kl.limiter.Allow()
}

// RateLimitByIP applies per-IP rate limiting for unauthenticated endpoints
// such as login. Relies on chi's RealIP having rewritten r.RemoteAddr.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool[string](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.allow(clientIP(r.RemoteAddr)) {
				writeProblem(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP drops the port so every connection from one host shares a bucket.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// RateLimit applies per-client rate limiting. Requests without a caller in
// context pass through.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool[int64](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !pool.allow(caller.ClientID) {
				writeProblem(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
