package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies the status and the {"error": ...} body
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body struct {
		Error string `json:"error"`
	}
	AssertJSONResponse(t, resp, &body)
	assert.Equal(t, expectedMessage, body.Error, "error message mismatch")
}

// SessionCookie returns the last session cookie set by resp, or nil. The last
// one is what a browser keeps.
func SessionCookie(resp *http.Response) *http.Cookie {
	var found *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			found = c
		}
	}
	return found
}

// AssertSessionCookieSet verifies resp carries a live, HTTP-only session cookie
func AssertSessionCookieSet(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	c := SessionCookie(resp)
	require.NotNil(t, c, "session cookie not set")
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly, "session cookie must be HTTP-only")
	assert.Greater(t, c.MaxAge, 0)
	return c
}

// AssertSessionCookieCleared verifies resp expires the session cookie
func AssertSessionCookieCleared(t *testing.T, resp *http.Response) {
	t.Helper()

	c := SessionCookie(resp)
	require.NotNil(t, c, "session cookie not present")
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}
