package service

import (
	"context"

	"caseable-catalog/internal/snapshot"

	"github.com/rs/zerolog"
)

// snapshotService implements SnapshotService.
type snapshotService struct {
	source snapshot.CatalogSource
	store  snapshot.Store
	logger zerolog.Logger
}

// NewSnapshotService creates a service that saves snapshots of source to store.
func NewSnapshotService(source snapshot.CatalogSource, store snapshot.Store, logger zerolog.Logger) SnapshotService {
	return &snapshotService{
		source: source,
		store:  store,
		logger: logger.With().Str("service", "snapshot").Logger(),
	}
}

func (s *snapshotService) Export(ctx context.Context) (string, *snapshot.Snapshot, error) {
	snap, err := snapshot.Take(ctx, s.source)
	if err != nil {
		return "", nil, err
	}

	key := snapshot.Key(snap)
	if err := s.store.Save(ctx, key, snap); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to save snapshot")
		return "", nil, err
	}

	s.logger.Info().
		Str("key", key).
		Int("product_types", len(snap.ProductTypes)).
		Int("devices", len(snap.Devices)).
		Int("filters", len(snap.Filters)).
		Msg("snapshot exported")

	return key, snap, nil
}
