package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with a unique email
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "Reader " + suffix,
		email:    fmt.Sprintf("reader_%s@example.com", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// User returns the unsaved user and the raw password
func (b *UserBuilder) User(t *testing.T) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	return &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}, b.password
}

// Build stores the user through repo
func (b *UserBuilder) Build(t *testing.T, repo repository.UserRepository) (*domain.User, string) {
	t.Helper()

	user, password := b.User(t)
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user, password
}

// SignupAndSignin registers the user over the API and signs client in. The
// session cookie ends up in client's jar.
func (b *UserBuilder) SignupAndSignin(t *testing.T, ts *TestServer, client *http.Client) {
	t.Helper()

	resp := PostJSON(t, client, ts.APIURL("/auth/signup"), map[string]string{
		"firstName": b.name,
		"email":     b.email,
		"password":  b.password,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: unexpected status code: %d", resp.StatusCode)
	}

	resp = PostJSON(t, client, ts.APIURL("/auth/signin"), map[string]string{
		"email":    b.email,
		"password": b.password,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin: unexpected status code: %d", resp.StatusCode)
	}
}

// PostJSON sends body as JSON. The caller closes the response body.
func PostJSON(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
	}

	resp, err := client.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// Get issues a GET. The caller closes the response body.
func Get(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

// Articles builds n distinct upstream articles
func Articles(n int) []domain.Article {
	articles := make([]domain.Article, n)
	for i := range articles {
		articles[i] = domain.Article{
			Title:       fmt.Sprintf("Story %d", i+1),
			Description: fmt.Sprintf("Description %d", i+1),
			URL:         fmt.Sprintf("https://news.example.com/story-%d", i+1),
			Image:       fmt.Sprintf("https://news.example.com/story-%d.jpg", i+1),
			PublishedAt: time.Date(2024, 1, 15, 10, i, 0, 0, time.UTC).Format(time.RFC3339),
			Source:      domain.ArticleSource{Name: "Example Wire", URL: "https://news.example.com"},
		}
	}
	return articles
}
