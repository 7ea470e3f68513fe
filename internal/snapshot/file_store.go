package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileStore implements Store on a local directory.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a store that keeps snapshots as files in dir.
func NewFileStore(dir string, logger zerolog.Logger) Store {
	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "snapshot-file-store").Logger(),
	}
}

// Save writes the snapshot to a temporary file and renames it into place,
// so a reader never sees a partial snapshot.
func (s *fileStore) Save(ctx context.Context, key string, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, key)
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, snap); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot file %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store snapshot file %s: %w", path, err)
	}

	s.logger.Info().
		Str("file", path).
		Int("product_types", len(snap.ProductTypes)).
		Int("devices", len(snap.Devices)).
		Int("filters", len(snap.Filters)).
		Msg("snapshot saved")

	return nil
}

// Load reads the snapshot stored under key.
func (s *fileStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, key)
	s.logger.Info().Str("file", path).Msg("loading snapshot file")

	file, err := os.Open(path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to open snapshot file")
		return nil, fmt.Errorf("failed to open snapshot file %s: %w", path, err)
	}
	defer file.Close()

	snap, err := decode(file)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to read snapshot file")
		return nil, fmt.Errorf("failed to read snapshot file %s: %w", path, err)
	}

	return snap, nil
}
