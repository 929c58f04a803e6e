// Package gnews is a minimal client for the GNews v4 REST API.
package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dom/newsly/internal/domain"
)

const (
	DefaultBaseURL = "https://gnews.io/api/v4"
	DefaultCountry = "in"
	DefaultLang    = "en"
	MaxResults     = 12
)

type Query struct {
	Lang    string
	Country string
	Max     int
	Q       string
	Topic   string
}

// DefaultQuery returns the parameter set used for every relay call.
func DefaultQuery() Query {
	return Query{Lang: DefaultLang, Country: DefaultCountry, Max: MaxResults}
}

type Response struct {
	TotalArticles int              `json:"totalArticles"`
	Articles      []domain.Article `json:"articles"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) TopHeadlines(ctx context.Context, q Query) (*Response, error) {
	return c.get(ctx, "/top-headlines", q)
}

func (c *Client) Search(ctx context.Context, q Query) (*Response, error) {
	return c.get(ctx, "/search", q)
}

func (c *Client) get(ctx context.Context, path string, q Query) (*Response, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.Max > 0 {
		params.Set("max", strconv.Itoa(q.Max))
	}
	if q.Q != "" {
		params.Set("q", q.Q)
	}
	if q.Topic != "" {
		params.Set("topic", q.Topic)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrUpstream, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s: status %d: %s", domain.ErrUpstream, path, resp.StatusCode, body)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrUpstream, path, err)
	}
	if out.Articles == nil {
		out.Articles = []domain.Article{}
	}
	return &out, nil
}
