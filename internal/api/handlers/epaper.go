package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/service"
	"github.com/go-chi/chi/v5"
)

type EpaperHandler struct {
	epaperService *service.EpaperService
}

func NewEpaperHandler(epaperService *service.EpaperService) *EpaperHandler {
	return &EpaperHandler{epaperService: epaperService}
}

// PDFResponse carries a null pdfUrl when no link was found.
type PDFResponse struct {
	PDFURL *string `json:"pdfUrl"`
}

func (h *EpaperHandler) All(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.epaperService.All())
}

func (h *EpaperHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "paperId")

	paper, err := h.epaperService.Get(id)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Epaper not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, paper)
}

func (h *EpaperHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "paperId")

	link, err := h.epaperService.ResolvePDF(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Epaper not found")
			return
		}
		log.Printf("ERROR [epaper.PDF] paperID=%s: %v", id, err)
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch PDF link")
		return
	}

	var resp PDFResponse
	if link != "" {
		resp.PDFURL = &link
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
