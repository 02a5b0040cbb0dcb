package router

import (
	"net/http"

	"food-delivery/internal/handler"
	"food-delivery/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	restaurantHandler *handler.RestaurantHandler,
	authHandler *handler.AuthHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Restaurant catalogue routes
	mux.HandleFunc("GET /api/restaurants", restaurantHandler.GetAll)
	mux.HandleFunc("GET /api/restaurants/{id}", restaurantHandler.GetByID)
	mux.HandleFunc("GET /api/restaurants/{id}/menu", restaurantHandler.Menu)

	// Order routes
	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders/{id}/items", orderHandler.OrderItems)
	mux.HandleFunc("PATCH /api/orders/{id}/status", orderHandler.UpdateStatus)
	mux.HandleFunc("GET /api/users/{id}/orders", orderHandler.UserOrders)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
