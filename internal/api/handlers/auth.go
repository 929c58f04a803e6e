package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/newsly/internal/api/middleware"
	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/metrics"
	"github.com/dom/newsly/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cookie      *middleware.SessionCookie
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService *service.AuthService, cookie *middleware.SessionCookie, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, metrics: m}
}

// SignupRequest accepts "firstName" as sent by the web client and "name" as
// an alias.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SigninResponse struct {
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := req.FirstName
	if name == "" {
		name = req.Name
	}

	err := h.authService.Signup(r.Context(), service.SignupInput{
		Name:     name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.metrics.RecordAuth("signup", "invalid")
			middleware.WriteError(w, http.StatusBadRequest, "All fields are required!")
		case errors.Is(err, domain.ErrConflict):
			h.metrics.RecordAuth("signup", "conflict")
			middleware.WriteError(w, http.StatusBadRequest, "Email already exists!")
		case errors.Is(err, domain.ErrStoreNotReady):
			middleware.WriteError(w, http.StatusServiceUnavailable, "Database not connected yet. Please try again.")
		default:
			log.Printf("ERROR [auth.Signup]: %v", err)
			h.metrics.RecordAuth("signup", "error")
			middleware.WriteError(w, http.StatusInternalServerError, "Server error during signup")
		}
		return
	}

	h.metrics.RecordAuth("signup", "ok")
	middleware.WriteJSON(w, http.StatusCreated, MessageResponse{Message: "Signup successful! Please login."})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Signin(r.Context(), service.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.metrics.RecordAuth("signin", "invalid")
			middleware.WriteError(w, http.StatusBadRequest, "Both email and password are required!")
		case errors.Is(err, domain.ErrAuth):
			h.metrics.RecordAuth("signin", "rejected")
			middleware.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, domain.ErrStoreNotReady):
			middleware.WriteError(w, http.StatusServiceUnavailable, "Database not connected yet. Please try again.")
		default:
			log.Printf("ERROR [auth.Signin]: %v", err)
			h.metrics.RecordAuth("signin", "error")
			middleware.WriteError(w, http.StatusInternalServerError, "Server error during signin")
		}
		return
	}

	h.metrics.RecordAuth("signin", "ok")
	h.cookie.Set(w, result.Token)
	middleware.WriteJSON(w, http.StatusOK, SigninResponse{
		Message: "Login successful!",
		User:    result.User,
	})
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.authService.Status(r.Context(), middleware.GetSessionToken(r.Context()))
	middleware.WriteJSON(w, http.StatusOK, status)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.GetSessionToken(r.Context())); err != nil {
		log.Printf("ERROR [auth.Logout]: %v", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	h.cookie.Clear(w)
	middleware.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}
