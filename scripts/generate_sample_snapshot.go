//go:build ignore

// Writes a small catalog snapshot to data/snapshots for trying out
// `caseablectl snapshot show` without a catalog service.
//
//	go run scripts/generate_sample_snapshot.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/snapshot"

	"github.com/rs/zerolog"
)

func main() {
	dataDir := "data/snapshots"

	snap := &snapshot.Snapshot{
		TakenAt: time.Now().UTC(),
		Partner: "sample",
		Region:  "eu",
		Lang:    "en",
		ProductTypes: []model.ProductType{
			{ID: "smartphone-hard-case", Name: "Hard Case", SKU: "HC", ProductionTime: model.ProductionTime{Min: 3, Max: 4}},
			{ID: "smartphone-flip-case", Name: "Flip Case", SKU: "FC", ProductionTime: model.ProductionTime{Min: 5, Max: 7}},
		},
		Devices: []model.Device{
			{ID: "apple-iphone-5", Name: "Apple iPhone 5", ShortName: "iPhone 5", Brand: "Apple", SKU: "APIP50"},
			{ID: "samsung-galaxy-s9", Name: "Samsung Galaxy S9", ShortName: "Galaxy S9", Brand: "Samsung", SKU: "SAGAS9"},
		},
		Filters: []model.Filter{
			{Name: "artist", MultiValue: true, Options: []string{}},
			{Name: "device", MultiValue: false, Options: []string{}},
			{Name: "gender", MultiValue: false, Options: []string{"m", "f"}},
		},
	}

	store := snapshot.NewFileStore(dataDir, zerolog.Nop())
	key := snapshot.Key(snap)
	if err := store.Save(context.Background(), key, snap); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}

	fmt.Printf("Created %s/%s\n", dataDir, key)
	fmt.Printf("\nShow it with:\n  caseablectl snapshot show %s --dir %s\n", key, dataDir)
}
