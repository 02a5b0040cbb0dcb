package handler

import (
	"encoding/json"
	"net/http"

	"food-delivery/internal/model"
	"food-delivery/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles registration and login HTTP requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
