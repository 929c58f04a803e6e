package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/newsly/internal/api"
	"github.com/dom/newsly/internal/config"
	"github.com/dom/newsly/internal/metrics"
	"github.com/dom/newsly/internal/repository/postgres"
	sessionredis "github.com/dom/newsly/internal/repository/redis"
	"github.com/dom/newsly/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Database: the server starts immediately and /api answers 503 until the
	// connection is up.
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}
	store := postgres.NewHandle()
	connected := store.ConnectInBackground(ctx, cfg.DatabaseURL, logLevel, 5*time.Second)

	repos := postgres.NewRepositories(store)

	if cfg.SessionStore == config.SessionStoreRedis {
		client, err := sessionredis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer client.Close()
		repos.Session = sessionredis.NewSessionRepository(client)
	}

	// Initialize services
	services := service.NewServices(repos, cfg, m)

	go func() {
		if err := <-connected; err != nil {
			log.Printf("ERROR [main] %v", err)
			return
		}
		services.Auth.RunSweeper(ctx, cfg.SessionSweep)
	}()

	// Initialize router
	router := api.NewRouter(services, store, m, registry, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		// Live streams end when ctx is cancelled on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (%s)", cfg.Port, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("ERROR [main] closing database: %v", err)
	}

	log.Println("Server stopped")
}
