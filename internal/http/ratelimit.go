package http

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter is a fixed-window per-client limiter keyed by remote IP.
// Stale windows are swept opportunistically, so no background goroutine
// is needed.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	seen    int

	limit  int
	window time.Duration
}

type clientWindow struct {
	start    time.Time
	requests int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.seen++
	if rl.seen%1024 == 0 {
		rl.sweepLocked()
	}

	now := time.Now()
	client, ok := rl.clients[clientIP]
	if !ok || now.Sub(client.start) > rl.window {
		rl.clients[clientIP] = &clientWindow{start: now, requests: 1}
		return true
	}
	client.requests++
	return client.requests <= rl.limit
}

func (rl *rateLimiter) sweepLocked() {
	cutoff := time.Now().Add(-2 * rl.window)
	for ip, client := range rl.clients {
		if client.start.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
