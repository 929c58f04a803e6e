package middleware

import (
	"net"
	"net/http"

	"github.com/felixgeelhaar/fortify/ratelimit"
)

// RateLimit rejects requests once the client address has used its budget.
// Use behind chi's RealIP so RemoteAddr is the client address.
func RateLimit(limiter ratelimit.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), clientKey(r)) {
				WriteError(w, http.StatusTooManyRequests, "Too many requests. Please retry shortly.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
