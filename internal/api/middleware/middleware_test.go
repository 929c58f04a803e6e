package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/testutil"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRecoverer(t *testing.T) {
	h := middleware.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("secret internal detail")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong!", errorBody(t, rec))
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestRequireStore(t *testing.T) {
	flag := testutil.NewReadyFlag(false)
	h := middleware.RequireStore(flag)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database not connected yet. Please try again.", errorBody(t, rec))

	flag.Set(true)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	h := middleware.CORS([]string{"http://localhost:3000", "https://newsly.example.com/"})(okHandler)

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed bool
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantAllowed: true},
		{name: "trailing slash in config", method: http.MethodGet, origin: "https://newsly.example.com", wantStatus: http.StatusOK, wantAllowed: true},
		{name: "foreign origin", method: http.MethodGet, origin: "https://evil.example.com", wantStatus: http.StatusOK},
		{name: "no origin", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:3000", wantStatus: http.StatusNoContent, wantAllowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/auth/signin", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(&ratelimit.Config{Rate: 1, Burst: 1, Interval: time.Minute})
	h := middleware.RateLimit(limiter)(okHandler)

	request := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:5002"), "budget is per host, not per connection")
	assert.Equal(t, http.StatusOK, request("10.0.0.2:5001"))
}

func TestSessionCookie(t *testing.T) {
	cfg := testutil.TestConfig()
	cookie := middleware.NewSessionCookie(cfg)

	rec := httptest.NewRecorder()
	cookie.Set(rec, "token-value")

	resp := rec.Result()
	c := testutil.AssertSessionCookieSet(t, resp)
	assert.Equal(t, "token-value", c.Value)
	assert.Equal(t, int(cfg.SessionMaxAge.Seconds()), c.MaxAge)
	assert.False(t, c.Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.Equal(t, "token-value", cookie.Get(req))
	assert.Empty(t, cookie.Get(httptest.NewRequest(http.MethodGet, "/", nil)))

	cfg.Environment = "production"
	assert.True(t, middleware.NewSessionCookie(cfg).Secure)
}
