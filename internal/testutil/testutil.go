package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/newsly/internal/api"
	"github.com/dom/newsly/internal/config"
	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/metrics"
	repoPostgres "github.com/dom/newsly/internal/repository/postgres"
	"github.com/dom/newsly/internal/service"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated
// connection. Skipped with -short.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_newsly"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"user_sessions", "users"} {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// NewTestRedis starts a redis container and returns a connected client.
// Skipped with -short.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		Environment:      "test",
		FrontendURL:      "http://newsly.test",
		SessionSecret:    "test-session-secret-for-testing-only",
		SessionMaxAge:    30 * time.Minute,
		SessionStore:     config.SessionStorePostgres,
		SessionSweep:     time.Minute,
		BcryptCost:       bcrypt.MinCost,
		PDFFetchTimeout:  time.Second,
		PDFMaxConcurrent: 2,
		PDFRatePerMinute: 30,
		StreamInterval:   50 * time.Millisecond,
	}
}

// TestServer holds all components for integration testing. Storage is in
// memory; the news upstream and the PDF resolver are fakes.
type TestServer struct {
	Server   *httptest.Server
	Users    *MemoryUserRepository
	Sessions *MemorySessionRepository
	Store    *ReadyFlag
	News     *FakeNewsAPI
	PDF      *FakePDFResolver
	Services *service.Services
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Config   *config.Config
}

// NewTestServer creates a complete test server. mutate, when given, adjusts
// the config before anything is built.
func NewTestServer(t *testing.T, mutate ...func(*config.Config)) *TestServer {
	t.Helper()

	cfg := TestConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	ts := &TestServer{
		Users:    NewMemoryUserRepository(),
		Sessions: NewMemorySessionRepository(),
		Store:    NewReadyFlag(true),
		News:     &FakeNewsAPI{},
		PDF:      &FakePDFResolver{},
		Metrics:  m,
		Registry: registry,
		Config:   cfg,
	}

	ts.Services = &service.Services{
		Auth:   service.NewAuthService(ts.Users, ts.Sessions, cfg),
		Epaper: service.NewEpaperService(domain.DefaultCatalogue(), ts.PDF, m),
		News:   service.NewNewsService(ts.News, m),
	}

	router := api.NewRouter(ts.Services, ts.Store, m, registry, cfg)
	ts.Server = httptest.NewServer(router)

	t.Cleanup(func() {
		ts.Server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}

// WebSocketURL returns the live headlines websocket URL
func (ts *TestServer) WebSocketURL() string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/api/news/ws"
}

// Client returns an HTTP client with its own cookie jar, i.e. one browser.
func (ts *TestServer) Client(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}
