package handler

import (
	"net/http"
	"time"

	"caseable-catalog/internal/service"

	"github.com/rs/zerolog"
)

// SnapshotResponse describes an exported snapshot.
type SnapshotResponse struct {
	Key          string    `json:"key"`
	TakenAt      time.Time `json:"takenAt"`
	ProductTypes int       `json:"productTypes"`
	Devices      int       `json:"devices"`
	Filters      int       `json:"filters"`
}

// SnapshotHandler handles snapshot export requests.
type SnapshotHandler struct {
	service service.SnapshotService
	logger  zerolog.Logger
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(service service.SnapshotService, logger zerolog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		service: service,
		logger:  logger.With().Str("handler", "snapshot").Logger(),
	}
}

// Export handles POST /api/snapshot requests.
func (h *SnapshotHandler) Export(w http.ResponseWriter, r *http.Request) {
	key, snap, err := h.service.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, SnapshotResponse{
		Key:          key,
		TakenAt:      snap.TakenAt,
		ProductTypes: len(snap.ProductTypes),
		Devices:      len(snap.Devices),
		Filters:      len(snap.Filters),
	})
}
