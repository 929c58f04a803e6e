package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/service"
)

type contextKey string

const (
	SessionKey      contextKey = "session"
	SessionTokenKey contextKey = "sessionToken"
)

// Session loads the session named by the cookie, rolls its expiry forward and
// re-issues the cookie. Requests without a valid session pass through
// unauthenticated.
func Session(authService *service.AuthService, cookie *SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionTokenKey, token)

			session, err := authService.Touch(ctx, token)
			switch {
			case err == nil:
				cookie.Set(w, token)
				ctx = context.WithValue(ctx, SessionKey, session)
			case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, service.ErrInvalidSessionToken):
			default:
				log.Printf("ERROR [middleware.Session] session refresh failed: %v", err)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSession(ctx context.Context) (*domain.UserSession, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.UserSession)
	return session, ok
}

func GetSessionToken(ctx context.Context) string {
	token, _ := ctx.Value(SessionTokenKey).(string)
	return token
}
