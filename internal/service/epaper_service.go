package service

import (
	"context"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/metrics"
	"github.com/dom/newsly/internal/pdflink"
)

// PDFResolver locates a PDF link on a publisher page.
type PDFResolver interface {
	Resolve(ctx context.Context, pageURL string) (pdflink.Match, bool)
}

type EpaperService struct {
	catalogue domain.Catalogue
	resolver  PDFResolver
	metrics   *metrics.Metrics
}

func NewEpaperService(catalogue domain.Catalogue, resolver PDFResolver, m *metrics.Metrics) *EpaperService {
	return &EpaperService{
		catalogue: catalogue,
		resolver:  resolver,
		metrics:   m,
	}
}

func (s *EpaperService) All() domain.Catalogue {
	return s.catalogue
}

func (s *EpaperService) Get(id string) (domain.EpaperDescriptor, error) {
	return s.catalogue.Lookup(id)
}

// ResolvePDF returns the PDF link for paper id, or "" when none could be
// found. The only error is domain.ErrEpaperNotFound.
func (s *EpaperService) ResolvePDF(ctx context.Context, id string) (string, error) {
	paper, err := s.catalogue.Lookup(id)
	if err != nil {
		return "", err
	}

	match, ok := s.resolver.Resolve(ctx, paper.URL)
	if !ok {
		s.metrics.RecordPDF("none")
		return "", nil
	}
	s.metrics.RecordPDF(match.Strategy)
	return match.URL, nil
}
