package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// windowLimiter allows max requests per client in each fixed window.
// It is safe for concurrent use.
type windowLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*windowCount
}

type windowCount struct {
	start time.Time
	count int
}

func newWindowLimiter(max int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		max:     max,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*windowCount),
	}
}

// allow records a request from key. When the limit is exhausted it returns
// false and the time until the window resets.
func (l *windowLimiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok || now.Sub(c.start) >= l.window {
		l.sweep(now)
		l.clients[key] = &windowCount{start: now, count: 1}
		return true, 0
	}
	if c.count >= l.max {
		return false, c.start.Add(l.window).Sub(now)
	}
	c.count++
	return true, 0
}

// sweep drops expired windows. Called with mu held.
func (l *windowLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.start) >= l.window {
			delete(l.clients, key)
		}
	}
}

// middleware rejects requests over the limit with 429.
func (l *windowLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := l.allow(clientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: rateLimitMessage})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys requests by the connection's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
