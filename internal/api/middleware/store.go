package middleware

import (
	"net/http"

	"github.com/dom/newsly/internal/repository"
)

// RequireStore answers 503 until the backing store is connected.
func RequireStore(store repository.Readiness) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.Ready() {
				WriteError(w, http.StatusServiceUnavailable, "Database not connected yet. Please try again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
