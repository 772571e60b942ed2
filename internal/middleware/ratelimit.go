package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/notifycsc/notify-csc/pkg/problem"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	onReject http.HandlerFunc
}

// NewRateLimiter allows perMinute requests per IP, with bursts up to the
// same amount.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idleTTL:  3 * time.Minute,
		onReject: func(w http.ResponseWriter, _ *http.Request) {
			problem.Write(w, http.StatusTooManyRequests, "Rate Limit Exceeded",
				"Too many requests. Please try again later.")
		},
	}
}

// WithRejectHandler replaces the default 429 response body.
func (rl *RateLimiter) WithRejectHandler(h http.HandlerFunc) *RateLimiter {
	rl.onReject = h
	return rl
}

// StartWithContext evicts idle visitors until ctx is cancelled.
func (rl *RateLimiter) StartWithContext(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.evict(now)
			}
		}
	}()
}

func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Middleware must run after chi's RealIP so RemoteAddr is the client address.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r.RemoteAddr)
		lim := rl.limiterFor(ip)
		if !lim.Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(1/float64(rl.limit)))))
			rl.onReject(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
