package handler

import (
	"net/http"
	"strconv"

	"food-delivery/internal/service"

	"github.com/rs/zerolog"
)

// RestaurantHandler handles restaurant catalogue HTTP requests.
type RestaurantHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(service service.MenuService, logger zerolog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: service,
		logger:  logger.With().Str("handler", "restaurant").Logger(),
	}
}

// GetAll handles GET /api/restaurants requests.
func (h *RestaurantHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.Restaurants(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}

// GetByID handles GET /api/restaurants/{id} requests.
func (h *RestaurantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID", h.logger)
		return
	}

	restaurant, err := h.service.Restaurant(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, restaurant)
}

// Menu handles GET /api/restaurants/{id}/menu requests.
func (h *RestaurantHandler) Menu(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant ID", h.logger)
		return
	}

	items, err := h.service.Menu(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
