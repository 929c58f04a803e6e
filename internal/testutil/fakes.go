package testutil

import (
	"context"
	"sync"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/gnews"
	"github.com/dom/newsly/internal/pdflink"
)

// FakeNewsAPI answers with canned articles or a canned error and records the
// queries it received.
type FakeNewsAPI struct {
	mu       sync.Mutex
	Articles []domain.Article
	Err      error
	Queries  []gnews.Query
}

func (f *FakeNewsAPI) respond(q gnews.Query) (*gnews.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Queries = append(f.Queries, q)
	if f.Err != nil {
		return nil, f.Err
	}
	articles := append([]domain.Article{}, f.Articles...)
	return &gnews.Response{TotalArticles: len(articles), Articles: articles}, nil
}

func (f *FakeNewsAPI) TopHeadlines(ctx context.Context, q gnews.Query) (*gnews.Response, error) {
	return f.respond(q)
}

func (f *FakeNewsAPI) Search(ctx context.Context, q gnews.Query) (*gnews.Response, error) {
	return f.respond(q)
}

func (f *FakeNewsAPI) LastQuery() gnews.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Queries) == 0 {
		return gnews.Query{}
	}
	return f.Queries[len(f.Queries)-1]
}

func (f *FakeNewsAPI) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

// FakePDFResolver returns URL for every page; an empty URL means no link.
type FakePDFResolver struct {
	URL      string
	Strategy string
}

func (f *FakePDFResolver) Resolve(ctx context.Context, pageURL string) (pdflink.Match, bool) {
	if f.URL == "" {
		return pdflink.Match{}, false
	}
	return pdflink.Match{URL: f.URL, Strategy: f.Strategy}, true
}
