// Package snapshot exports the catalog's product types, devices and filters
// to gzipped JSON documents on the local file system or S3.
//
// Snapshots are an operator export only. Catalog validation always works
// on fresh fetches and never reads a snapshot.
package snapshot

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"caseable-catalog/internal/client"
	"caseable-catalog/internal/model"
)

// Snapshot is the catalog as seen by one partner, language and region.
type Snapshot struct {
	TakenAt      time.Time           `json:"takenAt"`
	Partner      string              `json:"partner"`
	Region       string              `json:"region"`
	Lang         string              `json:"lang"`
	ProductTypes []model.ProductType `json:"productTypes"`
	Devices      []model.Device      `json:"devices"`
	Filters      []model.Filter      `json:"filters"`
}

// Store saves and loads snapshots by key.
type Store interface {
	Save(ctx context.Context, key string, snap *Snapshot) error
	Load(ctx context.Context, key string) (*Snapshot, error)
}

// CatalogSource is the part of the catalog client a snapshot reads.
type CatalogSource interface {
	Settings() client.Settings
	GetProductTypes(ctx context.Context) ([]model.ProductType, error)
	GetDevices(ctx context.Context) ([]model.Device, error)
	GetFilters(ctx context.Context) ([]model.Filter, error)
}

// Take fetches the three catalog lists one after the other and returns
// them as a snapshot.
func Take(ctx context.Context, src CatalogSource) (*Snapshot, error) {
	productTypes, err := src.GetProductTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take snapshot: %w", err)
	}

	devices, err := src.GetDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take snapshot: %w", err)
	}

	filters, err := src.GetFilters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take snapshot: %w", err)
	}

	settings := src.Settings()
	return &Snapshot{
		TakenAt:      time.Now().UTC(),
		Partner:      settings.Partner,
		Region:       settings.Region,
		Lang:         settings.Lang,
		ProductTypes: productTypes,
		Devices:      devices,
		Filters:      filters,
	}, nil
}

// Key names a snapshot after its scope and the time it was taken.
func Key(s *Snapshot) string {
	return fmt.Sprintf("catalog-%s-%s-%s-%s.json.gz",
		s.Partner, s.Region, s.Lang, s.TakenAt.UTC().Format("20060102T150405Z"))
}

func encode(w io.Writer, snap *Snapshot) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(snap); err != nil {
		_ = gz.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}
	return nil
}

func decode(r io.Reader) (*Snapshot, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var snap Snapshot
	if err := json.NewDecoder(gz).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
