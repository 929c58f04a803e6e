package handlers

import (
	"net/http"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/repository"
)

type HealthHandler struct {
	store repository.Readiness
}

func NewHealthHandler(store repository.Readiness) *HealthHandler {
	return &HealthHandler{store: store}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	database := "not connected"
	if h.store.Ready() {
		database = "connected"
	}
	middleware.WriteJSON(w, http.StatusOK, HealthResponse{Status: "Server is running", Database: database})
}
