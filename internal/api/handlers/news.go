package handlers

import (
	"net/http"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/service"
	"github.com/go-chi/chi/v5"
)

type NewsHandler struct {
	newsService *service.NewsService
}

func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

func (h *NewsHandler) Headlines(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.newsService.Headlines(r.Context()))
}

func (h *NewsHandler) Regional(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	middleware.WriteJSON(w, http.StatusOK, h.newsService.Regional(r.Context(), location))
}

func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.newsService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Query is required")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}

func (h *NewsHandler) Category(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.newsService.Category(r.Context(), r.URL.Query().Get("topic")))
}

func (h *NewsHandler) About(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.newsService.About())
}

func (h *NewsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.newsService.Contact())
}
