package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for Newsly
type Metrics struct {
	// Upstream news API
	UpstreamCalls   *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec
	RelayFallbacks  *prometheus.CounterVec

	// Live headlines
	StreamConnections *prometheus.GaugeVec
	StreamEvents      *prometheus.CounterVec

	// Epaper
	PDFResolutions *prometheus.CounterVec

	// Auth
	AuthAttempts *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered on registry
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		UpstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsly_upstream_calls_total",
				Help: "Total number of news API calls",
			},
			[]string{"operation", "success"},
		),
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newsly_upstream_latency_seconds",
				Help:    "News API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"operation"},
		),
		RelayFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsly_relay_fallbacks_total",
				Help: "Responses served from static fallback data",
			},
			[]string{"operation"},
		),
		StreamConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "newsly_stream_connections",
				Help: "Open live headline connections",
			},
			[]string{"transport"},
		),
		StreamEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsly_stream_events_total",
				Help: "Live headline events pushed to clients",
			},
			[]string{"transport", "type"},
		),
		PDFResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsly_pdf_resolutions_total",
				Help: "Epaper PDF link lookups by winning strategy",
			},
			[]string{"strategy"},
		),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsly_auth_attempts_total",
				Help: "Signup and signin attempts by outcome",
			},
			[]string{"action", "outcome"},
		),
	}
}

// RecordUpstream records one news API call
func (m *Metrics) RecordUpstream(operation string, start time.Time, err error) {
	m.UpstreamCalls.WithLabelValues(operation, strconv.FormatBool(err == nil)).Inc()
	m.UpstreamLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RecordFallback(operation string) {
	m.RelayFallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordPDF(strategy string) {
	m.PDFResolutions.WithLabelValues(strategy).Inc()
}

func (m *Metrics) RecordAuth(action, outcome string) {
	m.AuthAttempts.WithLabelValues(action, outcome).Inc()
}

// StreamOpened increments the connection gauge and returns the matching
// decrement.
func (m *Metrics) StreamOpened(transport string) func() {
	g := m.StreamConnections.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

func (m *Metrics) RecordStreamEvent(transport, eventType string) {
	m.StreamEvents.WithLabelValues(transport, eventType).Inc()
}
