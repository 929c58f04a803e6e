package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/gnews"
	"github.com/dom/newsly/internal/metrics"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
)

var ErrQueryRequired = fmt.Errorf("%w: query is required", domain.ErrValidation)

// NewsAPI is the upstream the relay reads from.
type NewsAPI interface {
	TopHeadlines(ctx context.Context, q gnews.Query) (*gnews.Response, error)
	Search(ctx context.Context, q gnews.Query) (*gnews.Response, error)
}

type HeadlinesResult struct {
	Articles      []domain.Article `json:"articles"`
	TotalArticles int              `json:"totalArticles"`
	Error         string           `json:"error,omitempty"`
}

type SearchResult struct {
	Articles      []domain.Article `json:"articles"`
	TotalArticles int              `json:"totalArticles"`
	Query         string           `json:"query"`
	Error         string           `json:"error,omitempty"`
}

type CategoryResult struct {
	Articles      []domain.Article `json:"articles"`
	TotalArticles int              `json:"totalArticles"`
	Topic         string           `json:"topic"`
	Error         string           `json:"error,omitempty"`
}

type RegionalResult struct {
	Location      string              `json:"location"`
	StateParams   domain.RegionParams `json:"stateParams"`
	Articles      []domain.Article    `json:"articles"`
	TotalArticles int                 `json:"totalArticles"`
	Error         string              `json:"error,omitempty"`
}

// NewsService relays the upstream news API. Read paths never fail because of
// the upstream; they degrade to a static payload with an error note.
type NewsService struct {
	api     NewsAPI
	breaker circuitbreaker.CircuitBreaker[*gnews.Response]
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewNewsService(api NewsAPI, m *metrics.Metrics) *NewsService {
	return &NewsService{
		api: api,
		breaker: circuitbreaker.New[*gnews.Response](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				log.Printf("WARN [news.breaker] state change from=%s to=%s", from.String(), to.String())
			},
		}),
		metrics: m,
		now:     time.Now,
	}
}

func (s *NewsService) call(ctx context.Context, operation string, fn func(ctx context.Context) (*gnews.Response, error)) (*gnews.Response, error) {
	start := time.Now()
	resp, err := s.breaker.Execute(ctx, fn)
	s.metrics.RecordUpstream(operation, start, err)
	if err != nil {
		log.Printf("ERROR [news.%s] upstream: %v", operation, err)
		s.metrics.RecordFallback(operation)
		return nil, err
	}
	return resp, nil
}

func (s *NewsService) topHeadlines(ctx context.Context, operation string, topic string) (*gnews.Response, error) {
	q := gnews.DefaultQuery()
	q.Topic = topic
	return s.call(ctx, operation, func(ctx context.Context) (*gnews.Response, error) {
		return s.api.TopHeadlines(ctx, q)
	})
}

func (s *NewsService) Headlines(ctx context.Context) HeadlinesResult {
	resp, err := s.topHeadlines(ctx, "headlines", "")
	if err != nil {
		articles := sampleHeadlines(s.now())
		return HeadlinesResult{
			Articles:      articles,
			TotalArticles: len(articles),
			Error:         "Using sample data - live headlines unavailable (set GNEWS_API_KEY)",
		}
	}
	return HeadlinesResult{Articles: nonNil(resp.Articles), TotalArticles: resp.TotalArticles}
}

// LiveHeadlines returns the raw top headlines for the push loop, which
// reports failures as error events instead of falling back.
func (s *NewsService) LiveHeadlines(ctx context.Context) ([]domain.Article, error) {
	resp, err := s.topHeadlines(ctx, "stream", "")
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Articles), nil
}

func (s *NewsService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}

	q := gnews.DefaultQuery()
	q.Q = query
	resp, err := s.call(ctx, "search", func(ctx context.Context) (*gnews.Response, error) {
		return s.api.Search(ctx, q)
	})
	if err != nil {
		return &SearchResult{
			Articles: []domain.Article{},
			Query:    query,
			Error:    "Search unavailable right now. Please retry shortly.",
		}, nil
	}
	return &SearchResult{Articles: nonNil(resp.Articles), TotalArticles: resp.TotalArticles, Query: query}, nil
}

// Category serves a topic feed. Unknown topics fall back to top stories.
func (s *NewsService) Category(ctx context.Context, rawTopic string) CategoryResult {
	topic := domain.LookupTopic(rawTopic)
	if topic == "" {
		resp, err := s.topHeadlines(ctx, "category", "")
		if err != nil {
			return CategoryResult{
				Articles: []domain.Article{},
				Topic:    domain.TopStories,
				Error:    "Headlines unavailable right now. Please retry shortly.",
			}
		}
		return CategoryResult{Articles: nonNil(resp.Articles), TotalArticles: resp.TotalArticles, Topic: domain.TopStories}
	}

	resp, err := s.topHeadlines(ctx, "category", topic)
	if err != nil {
		return CategoryResult{
			Articles: []domain.Article{},
			Topic:    topic,
			Error:    "Category feed unavailable right now. Please retry shortly.",
		}
	}
	return CategoryResult{Articles: nonNil(resp.Articles), TotalArticles: resp.TotalArticles, Topic: topic}
}

// Regional searches in the region's language. Unknown locations use the
// default region's parameters but keep the requested name.
func (s *NewsService) Regional(ctx context.Context, location string) RegionalResult {
	location = strings.ToLower(location)
	params, _ := domain.LookupRegion(location)

	q := gnews.DefaultQuery()
	q.Lang = params.Lang
	q.Q = params.Q
	resp, err := s.call(ctx, "regional", func(ctx context.Context) (*gnews.Response, error) {
		return s.api.Search(ctx, q)
	})
	if err != nil {
		articles := sampleRegional(s.now())
		return RegionalResult{
			Location:      location,
			StateParams:   params,
			Articles:      articles,
			TotalArticles: len(articles),
			Error:         "Using localized sample data - live regional headlines unavailable (check GNEWS_API_KEY)",
		}
	}
	return RegionalResult{
		Location:      location,
		StateParams:   params,
		Articles:      nonNil(resp.Articles),
		TotalArticles: resp.TotalArticles,
	}
}

type AboutInfo struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ContactInfo struct {
	Title   string `json:"title"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *NewsService) About() AboutInfo {
	return AboutInfo{
		Title:   "About Newsly",
		Content: "Newsly is your go-to platform for reading regional newspapers and news from across India in your preferred language.",
	}
}

func (s *NewsService) Contact() ContactInfo {
	return ContactInfo{
		Title:   "Contact Us",
		Email:   "contact@newsly.com",
		Phone:   "+91-XXXXXXXXXX",
		Address: "India",
	}
}

func nonNil(articles []domain.Article) []domain.Article {
	if articles == nil {
		return []domain.Article{}
	}
	return articles
}
