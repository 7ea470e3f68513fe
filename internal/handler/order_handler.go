package handler

import (
	"net/http"
	"strconv"
	"strings"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/service"

	"github.com/rs/zerolog"
)

// UpdateOrderRequest is the body of PATCH /api/orders/{id}.
type UpdateOrderRequest struct {
	Status string `json:"status"`
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Place handles POST /api/orders requests.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	req := model.NewOrderRequest()
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	status, err := h.service.Place(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, status)
}

// Get handles GET /api/orders?ids=a,b requests.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids := splitIDs(r.URL.Query()["ids"])
	if len(ids) == 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "ids parameter is required", h.logger)
		return
	}

	statuses, err := h.service.Get(r.Context(), ids)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, statuses)
}

// Update handles PATCH /api/orders/{id} requests.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	status, err := h.service.Update(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Journal handles GET /api/orders/journal requests. With ids=1,2 it returns
// the recorded statuses of those orders, otherwise a page of the journal.
func (h *OrderHandler) Journal(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query()["ids"]; len(raw) > 0 {
		h.journalByIDs(w, r, splitIDs(raw))
		return
	}

	limit, ok := h.queryInt(w, r, "limit", 10)
	if !ok {
		return
	}
	offset, ok := h.queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	entries, err := h.service.Journal(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *OrderHandler) journalByIDs(w http.ResponseWriter, r *http.Request, raw []string) {
	if len(raw) == 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "ids parameter is empty", h.logger)
		return
	}

	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid order id "+strconv.Quote(s), h.logger)
			return
		}
		ids = append(ids, id)
	}

	entries, err := h.service.JournalByIDs(r.Context(), ids)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// queryInt parses a non-negative integer query parameter, writing a 400
// response when it is malformed.
func (h *OrderHandler) queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return n, true
}

// splitIDs accepts both ids=a,b and ids=a&ids=b.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
