// Package pdflink finds a downloadable PDF link on a publisher page.
//
// Discovery is best effort: a page is fetched once and a fixed list of
// strategies is tried in order. The first strategy that yields a link wins.
package pdflink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/felixgeelhaar/fortify/bulkhead"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20
)

// Strategy inspects a parsed page (and its raw markup) and returns a link or "".
type Strategy struct {
	Name string
	Find func(doc *goquery.Document, body []byte) string
}

var pdfURLPattern = regexp.MustCompile(`https?://[^\s<>"]+?\.pdf`)

// Strategies is the fixed priority order used by Find.
var Strategies = []Strategy{
	{Name: "anchor-href", Find: anchorHref},
	{Name: "anchor-text", Find: anchorText},
	{Name: "iframe", Find: iframeSrc},
	{Name: "regexp", Find: bodyRegexp},
}

func anchorHref(doc *goquery.Document, _ []byte) string {
	href, _ := doc.Find(`a[href*=".pdf"]`).First().Attr("href")
	return href
}

// anchorText matches "Download" or "PDF" exactly as written; the first such
// anchor decides the outcome even when it has no href.
func anchorText(doc *goquery.Document, _ []byte) string {
	var href string
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, "Download") || strings.Contains(text, "PDF") {
			href, _ = s.Attr("href")
			return false
		}
		return true
	})
	return href
}

func iframeSrc(doc *goquery.Document, _ []byte) string {
	src, _ := doc.Find("iframe").First().Attr("src")
	if strings.Contains(src, ".pdf") {
		return src
	}
	return ""
}

func bodyRegexp(_ *goquery.Document, body []byte) string {
	return string(pdfURLPattern.Find(body))
}

// Match is a discovered link together with the strategy that produced it.
type Match struct {
	URL      string
	Strategy string
}

// Find applies Strategies to markup and returns the first match.
func Find(body []byte) (Match, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Match{}, false
	}

	for _, s := range Strategies {
		if link := s.Find(doc, body); link != "" {
			return Match{URL: link, Strategy: s.Name}, true
		}
	}
	return Match{}, false
}

type Resolver struct {
	httpClient *http.Client
	userAgent  string
	bulkhead   bulkhead.Bulkhead[[]byte]
}

// NewResolver builds a resolver whose page fetches time out after timeout and
// of which at most maxConcurrent run at once.
func NewResolver(timeout time.Duration, maxConcurrent int) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &Resolver{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  DefaultUserAgent,
		bulkhead: bulkhead.New[[]byte](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      maxConcurrent * 4,
			QueueTimeout:  timeout,
		}),
	}
}

// Resolve fetches pageURL and runs Find over it. Fetch failures of any kind
// are logged and reported as no match.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (Match, bool) {
	body, err := r.bulkhead.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return r.fetch(ctx, pageURL)
	})
	if err != nil {
		log.Printf("ERROR [pdflink.Resolve] url=%s: %v", pageURL, err)
		return Match{}, false
	}
	return Find(body)
}

func (r *Resolver) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
