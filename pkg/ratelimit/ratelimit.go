package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// How long an idle client entry survives before eviction.
const idleTTL = 3 * time.Minute

// Limiter is a token-bucket rate limiter keyed by client IP
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// New creates a per-IP limiter allowing rps sustained requests per
// second with the given burst
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		clients: map[string]*client{},
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// Middleware enforces the rate limit before calling the next handler
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ip, _, err := net.SplitHostPort(req.RemoteAddr)
		if err != nil {
			ip = req.RemoteAddr
		}

		l.mu.Lock()
		c := l.clients[ip]
		if c == nil {
			c = &client{lim: rate.NewLimiter(l.rps, l.burst)}
			l.clients[ip] = c
			l.evictIdle()
		}
		c.seen = time.Now()
		allowed := c.lim.Allow()
		l.mu.Unlock()

		if !allowed {
			http.Error(w, "rate limit", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// evictIdle drops entries not seen for a while. Called with l.mu held,
// only on the new-client path, so steady-state traffic pays nothing.
func (l *Limiter) evictIdle() {
	cutoff := time.Now().Add(-idleTTL)
	for ip, c := range l.clients {
		if c.seen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}
