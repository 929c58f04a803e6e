package api

import (
	"net/http"
	"time"

	"github.com/dom/newsly/internal/api/handlers"
	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/config"
	"github.com/dom/newsly/internal/metrics"
	"github.com/dom/newsly/internal/repository"
	"github.com/dom/newsly/internal/service"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(services *service.Services, store repository.Readiness, m *metrics.Metrics, gatherer prometheus.Gatherer, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Route not found")
	})

	cookie := middleware.NewSessionCookie(cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store)
	authHandler := handlers.NewAuthHandler(services.Auth, cookie, m)
	epaperHandler := handlers.NewEpaperHandler(services.Epaper)
	newsHandler := handlers.NewNewsHandler(services.News)
	streamHandler := handlers.NewStreamHandler(services.News, cfg.StreamInterval, cfg.AllowedOrigins(), m)

	pdfLimiter := ratelimit.New(&ratelimit.Config{
		Rate:     cfg.PDFRatePerMinute,
		Burst:    cfg.PDFRatePerMinute,
		Interval: time.Minute,
	})

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireStore(store))
		r.Use(middleware.Session(services.Auth, cookie))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Get("/status", authHandler.Status)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/epaper", func(r chi.Router) {
			r.Get("/all", epaperHandler.All)
			r.Get("/{paperId}", epaperHandler.Get)
			r.With(middleware.RateLimit(pdfLimiter)).Get("/{paperId}/pdf", epaperHandler.PDF)
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/headlines", newsHandler.Headlines)
			r.Get("/regional/{location}", newsHandler.Regional)
			r.Get("/search", newsHandler.Search)
			r.Get("/category", newsHandler.Category)
			r.Get("/about", newsHandler.About)
			r.Get("/contact", newsHandler.Contact)
			r.Get("/stream", streamHandler.SSE)
			r.Get("/ws", streamHandler.WebSocket)
		})
	})

	return r
}
