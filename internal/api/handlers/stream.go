package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/metrics"
	"github.com/dom/newsly/internal/service"
	"github.com/dom/newsly/internal/stream"
	ws "github.com/gorilla/websocket"
)

type StreamHandler struct {
	newsService *service.NewsService
	interval    time.Duration
	metrics     *metrics.Metrics
	upgrader    ws.Upgrader
}

func NewStreamHandler(newsService *service.NewsService, interval time.Duration, allowedOrigins []string, m *metrics.Metrics) *StreamHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &StreamHandler{
		newsService: newsService,
		interval:    interval,
		metrics:     m,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (h *StreamHandler) loop(transport string) *stream.Loop {
	return &stream.Loop{
		Interval: h.interval,
		Fetch:    h.newsService.LiveHeadlines,
		OnEvent: func(ev stream.Event) {
			h.metrics.RecordStreamEvent(transport, ev.Type)
		},
	}
}

// SSE streams headline events until the client disconnects.
func (h *StreamHandler) SSE(w http.ResponseWriter, r *http.Request) {
	// The server-wide write timeout would cut a long-lived stream.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("WARN [stream.SSE] cannot clear write deadline: %v", err)
	}

	sse, err := stream.NewSSEWriter(w)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	closed := h.metrics.StreamOpened("sse")
	defer closed()

	if err := h.loop("sse").Run(r.Context(), sse); err != nil {
		log.Printf("ERROR [stream.SSE] write failed: %v", err)
	}
}

// WebSocket serves the same events as JSON frames.
func (h *StreamHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	closed := h.metrics.StreamOpened("ws")
	defer closed()

	if err := stream.NewWSConn(conn).Serve(r.Context(), h.loop("ws")); err != nil {
		log.Printf("ERROR [stream.WebSocket] write failed: %v", err)
	}
}
