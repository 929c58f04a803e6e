package middleware

import (
	"net/http"
	"time"

	"github.com/dom/newsly/internal/config"
)

const SessionCookieName = "newsly.sid"

// SessionCookie sets, reads and clears the session cookie with consistent
// security attributes.
type SessionCookie struct {
	Name     string
	Path     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

func NewSessionCookie(cfg *config.Config) *SessionCookie {
	return &SessionCookie{
		Name:     SessionCookieName,
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     c.Path,
		MaxAge:   int(c.MaxAge.Seconds()),
		Expires:  time.Now().Add(c.MaxAge),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	})
}

// Get returns the cookie value or "" when absent.
func (c *SessionCookie) Get(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     c.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	})
}
