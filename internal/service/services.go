package service

import (
	"github.com/dom/newsly/internal/config"
	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/gnews"
	"github.com/dom/newsly/internal/metrics"
	"github.com/dom/newsly/internal/pdflink"
	"github.com/dom/newsly/internal/repository"
)

type Services struct {
	Auth   *AuthService
	Epaper *EpaperService
	News   *NewsService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, m *metrics.Metrics) *Services {
	return &Services{
		Auth:   NewAuthService(repos.User, repos.Session, cfg),
		Epaper: NewEpaperService(domain.DefaultCatalogue(), pdflink.NewResolver(cfg.PDFFetchTimeout, cfg.PDFMaxConcurrent), m),
		News:   NewNewsService(gnews.NewClient(cfg.GNewsBaseURL, cfg.GNewsAPIKey, cfg.GNewsTimeout), m),
	}
}
