package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/service"
)

// APIClient handles HTTP communication with the backend. The session cookie
// is kept in sessionFile between invocations.
type APIClient struct {
	baseURL     string
	httpClient  *http.Client
	sessionFile string
	token       string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, sessionFile string) *APIClient {
	c := &APIClient{
		baseURL:     strings.TrimRight(baseURL, "/") + "/api",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		sessionFile: sessionFile,
	}
	if sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			c.token = strings.TrimSpace(string(data))
		}
	}
	return c
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type SigninResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

type PDFResponse struct {
	PDFURL *string `json:"pdfUrl"`
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: c.token})
	}
	return req, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.storeSession(resp); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: e.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// storeSession follows the server's Set-Cookie for the session, including
// the rolling refresh and the clear on logout.
func (c *APIClient) storeSession(resp *http.Response) error {
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			cookie = ck
		}
	}
	if cookie == nil {
		return nil
	}

	if cookie.Value == "" || cookie.MaxAge < 0 {
		c.token = ""
		if c.sessionFile != "" {
			if err := os.Remove(c.sessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
		return nil
	}

	c.token = cookie.Value
	if c.sessionFile == "" {
		return nil
	}
	return os.WriteFile(c.sessionFile, []byte(cookie.Value), 0o600)
}

func (c *APIClient) Signup(ctx context.Context, name, email, password string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"firstName": name,
		"email":     email,
		"password":  password,
	}, &out)
	return out.Message, err
}

func (c *APIClient) Signin(ctx context.Context, email, password string) (*SigninResponse, error) {
	var out SigninResponse
	err := c.do(ctx, http.MethodPost, "/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Status(ctx context.Context) (*service.AuthStatus, error) {
	var out service.AuthStatus
	if err := c.do(ctx, http.MethodGet, "/auth/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *APIClient) Headlines(ctx context.Context) (*service.HeadlinesResult, error) {
	var out service.HeadlinesResult
	if err := c.do(ctx, http.MethodGet, "/news/headlines", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Search(ctx context.Context, query string) (*service.SearchResult, error) {
	var out service.SearchResult
	if err := c.do(ctx, http.MethodGet, "/news/search?q="+url.QueryEscape(query), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Category(ctx context.Context, topic string) (*service.CategoryResult, error) {
	var out service.CategoryResult
	if err := c.do(ctx, http.MethodGet, "/news/category?topic="+url.QueryEscape(topic), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Regional(ctx context.Context, location string) (*service.RegionalResult, error) {
	var out service.RegionalResult
	if err := c.do(ctx, http.MethodGet, "/news/regional/"+url.PathEscape(location), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Epapers(ctx context.Context) (domain.Catalogue, error) {
	var out domain.Catalogue
	if err := c.do(ctx, http.MethodGet, "/epaper/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) PDF(ctx context.Context, paperID string) (*PDFResponse, error) {
	var out PDFResponse
	if err := c.do(ctx, http.MethodGet, "/epaper/"+url.PathEscape(paperID)+"/pdf", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SSEEvent is one frame of the live headlines stream.
type SSEEvent struct {
	Type string
	Data json.RawMessage
}

// Stream reads the live headlines stream and calls fn per event until ctx is
// done or the server closes the stream.
func (c *APIClient) Stream(ctx context.Context, fn func(SSEEvent) error) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/news/stream", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}

	var ev SSEEvent
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.Data = json.RawMessage(strings.TrimPrefix(line, "data: "))
		case line == "":
			if ev.Data != nil {
				if err := fn(ev); err != nil {
					return err
				}
			}
			ev = SSEEvent{}
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}
