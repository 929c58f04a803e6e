package service_test

import (
	"context"
	"testing"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/metrics"
	"github.com/dom/newsly/internal/service"
	"github.com/dom/newsly/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpaperService_Catalogue(t *testing.T) {
	svc := service.NewEpaperService(domain.DefaultCatalogue(), &testutil.FakePDFResolver{}, metrics.New(prometheus.NewRegistry()))

	all := svc.All()
	assert.Len(t, all, 8)

	for _, id := range all.IDs() {
		paper, err := svc.Get(id)
		require.NoError(t, err)
		assert.Equal(t, id, paper.ID)
		assert.NotEmpty(t, paper.URL)
	}

	_, err := svc.Get("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEpaperService_ResolvePDF(t *testing.T) {
	ctx := context.Background()
	id := domain.DefaultCatalogue().IDs()[0]

	tests := []struct {
		name     string
		paperID  string
		resolver *testutil.FakePDFResolver
		wantURL  string
		wantErr  error
		strategy string
	}{
		{
			name:     "link found",
			paperID:  id,
			resolver: &testutil.FakePDFResolver{URL: "https://cdn.example.com/today.pdf", Strategy: "anchor-href"},
			wantURL:  "https://cdn.example.com/today.pdf",
			strategy: "anchor-href",
		},
		{
			name:     "no link",
			paperID:  id,
			resolver: &testutil.FakePDFResolver{},
			strategy: "none",
		},
		{
			name:     "unknown paper",
			paperID:  "nope",
			resolver: &testutil.FakePDFResolver{URL: "https://cdn.example.com/today.pdf"},
			wantErr:  domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			svc := service.NewEpaperService(domain.DefaultCatalogue(), tt.resolver, m)

			link, err := svc.ResolvePDF(ctx, tt.paperID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, link)
			assert.Equal(t, float64(1), promtest.ToFloat64(m.PDFResolutions.WithLabelValues(tt.strategy)))
		})
	}
}
