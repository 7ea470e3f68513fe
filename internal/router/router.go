package router

import (
	"net/http"

	"caseable-catalog/internal/handler"
	"caseable-catalog/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	snapshotHandler *handler.SnapshotHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalog routes
	mux.HandleFunc("GET /api/product-types", catalogHandler.ProductTypes)
	mux.HandleFunc("GET /api/devices", catalogHandler.Devices)
	mux.HandleFunc("GET /api/filters", catalogHandler.Filters)
	mux.HandleFunc("GET /api/filters/{name}", catalogHandler.FilterOptions)
	mux.HandleFunc("GET /api/products/{type}", catalogHandler.Products)
	mux.HandleFunc("GET /api/picker", catalogHandler.Picker)

	// Order routes
	mux.HandleFunc("POST /api/orders", orderHandler.Place)
	mux.HandleFunc("GET /api/orders", orderHandler.Get)
	mux.HandleFunc("GET /api/orders/journal", orderHandler.Journal)
	mux.HandleFunc("PATCH /api/orders/{id}", orderHandler.Update)

	mux.HandleFunc("POST /api/snapshot", snapshotHandler.Export)

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
