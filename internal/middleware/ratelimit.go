package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	submissionLimit  = 20
	submissionWindow = 10 * time.Minute
)

// windowLimiter counts requests per client in fixed windows. Expired
// windows are dropped on each call, so no cleanup goroutine is needed.
type windowLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	clients map[string]*clientWindow
}

type clientWindow struct {
	start time.Time
	count int
}

func newWindowLimiter(limit int, d time.Duration) *windowLimiter {
	return &windowLimiter{
		limit:   limit,
		window:  d,
		now:     time.Now,
		clients: make(map[string]*clientWindow),
	}
}

// allow records a request and reports whether it fits in the client's
// window, plus how long until that window resets.
func (l *windowLimiter) allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.clients {
		if now.Sub(w.start) >= l.window {
			delete(l.clients, key)
		}
	}

	w, ok := l.clients[client]
	if !ok {
		w = &clientWindow{start: now}
		l.clients[client] = w
	}

	reset := w.start.Add(l.window).Sub(now)
	if w.count >= l.limit {
		return false, reset
	}
	w.count++
	return true, reset
}

// RateLimitSubmissions allows 20 form submissions per client every 10 minutes.
func RateLimitSubmissions() func(http.HandlerFunc) http.HandlerFunc {
	return rateLimit(newWindowLimiter(submissionLimit, submissionWindow))
}

func rateLimit(limiter *windowLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, reset := limiter.allow(ip)
			if !allowed {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(reset.Round(time.Second).Seconds())))
				http.Error(w, "Too many submissions. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// clientIP prefers the first X-Forwarded-For hop set by the reverse proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
