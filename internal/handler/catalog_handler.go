package handler

import (
	"net/http"

	"caseable-catalog/internal/service"

	"github.com/rs/zerolog"
)

// CatalogHandler handles catalog-related HTTP requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ProductTypes handles GET /api/product-types requests.
func (h *CatalogHandler) ProductTypes(w http.ResponseWriter, r *http.Request) {
	productTypes, err := h.service.ProductTypes(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, productTypes)
}

// Devices handles GET /api/devices requests.
func (h *CatalogHandler) Devices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.service.Devices(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// Filters handles GET /api/filters requests.
func (h *CatalogHandler) Filters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.service.Filters(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, filters)
}

// FilterOptions handles GET /api/filters/{name} requests. The options
// payload is passed through as the catalog service sent it.
func (h *CatalogHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.FilterOptions(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// Products handles GET /api/products/{type} requests. Every query
// parameter is a filter of the search.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context(), r.PathValue("type"), r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Picker handles GET /api/picker?device=&type= requests.
func (h *CatalogHandler) Picker(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	picker, err := h.service.Picker(r.Context(), query.Get("device"), query.Get("type"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, picker)
}
