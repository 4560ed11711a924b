package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	// Rate is the sustained number of requests per second.
	Rate float64
	// Burst is the bucket size.
	Burst int
	// KeyFunc extracts the client key; defaults to the client IP.
	KeyFunc func(*http.Request) string
	// IdleTTL evicts limiters of clients idle for this long; defaults to 10m.
	IdleTTL time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	clients map[string]*client
}

func newLimiterSet(cfg RateLimitConfig) *limiterSet {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &limiterSet{cfg: cfg, clients: make(map[string]*client)}
}

func (s *limiterSet) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(s.cfg.Rate), s.cfg.Burst)}
		s.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (s *limiterSet) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, c := range s.clients {
		if now.Sub(c.lastSeen) >= s.cfg.IdleTTL {
			delete(s.clients, key)
		}
	}
}

// RateLimit limits each client to cfg.Rate requests per second with bursts
// of cfg.Burst. Rejected requests get 429 with a Retry-After header. Idle
// client limiters are evicted until ctx is cancelled.
func RateLimit(ctx context.Context, cfg RateLimitConfig) Middleware {
	set := newLimiterSet(cfg)
	go func() {
		ticker := time.NewTicker(set.cfg.IdleTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				set.evict(now)
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			lim := set.get(set.cfg.KeyFunc(r), now)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(set.cfg.Burst))
			res := lim.ReserveN(now, 1)
			if delay := res.DelayFrom(now); delay > 0 {
				res.CancelAt(now)
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			remaining := int(lim.TokensAt(now))
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host of RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
