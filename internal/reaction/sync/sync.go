// Package sync handles importing reaction datasets into SQLite.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/moonbelt/reaction-server/internal/reaction/catalog"
	"github.com/moonbelt/reaction-server/internal/reaction/db"
	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// Syncer imports reaction and ore-mapping datasets.
type Syncer struct {
	db *db.DB
}

// NewSyncer creates a new Syncer.
func NewSyncer(database *db.DB) *Syncer {
	return &Syncer{db: database}
}

// ImportReactionsFromFile imports reaction formulas from a JSON file.
// The file is an array of formulas, each with one output and N inputs.
// A decode failure aborts the import with nothing written.
func (s *Syncer) ImportReactionsFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var reactions []reaction.Reaction
	if err := json.Unmarshal(data, &reactions); err != nil {
		return fmt.Errorf("parsing reactions JSON: %w", err)
	}

	store := db.NewReactionStore(s.db)
	if err := store.BulkInsertReactions(ctx, reactions); err != nil {
		return fmt.Errorf("inserting reactions: %w", err)
	}

	if err := s.db.SetSyncMetadata(ctx, "reactions_last_sync", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := s.db.SetSyncMetadata(ctx, "reactions_count", fmt.Sprintf("%d", len(reactions))); err != nil {
		return err
	}

	return nil
}

// mappingsFile mirrors the rarity-tiered ore mapping dataset: each tier
// maps ore names to the refined materials (with per-unit quantities) the
// ore yields.
type mappingsFile struct {
	R4  map[string]map[string]int64 `json:"R4_Ubiquitous"`
	R8  map[string]map[string]int64 `json:"R8_Common"`
	R16 map[string]map[string]int64 `json:"R16_Uncommon"`
	R32 map[string]map[string]int64 `json:"R32_Rare"`
	R64 map[string]map[string]int64 `json:"R64_Exceptional"`
}

// ImportOreMappingsFromFile imports the ore-to-material mapping dataset.
// Only refined materials that reactions actually consume are kept; regular
// minerals are dropped at import time.
func (s *Syncer) ImportOreMappingsFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var mappings mappingsFile
	if err := json.Unmarshal(data, &mappings); err != nil {
		return fmt.Errorf("parsing mappings JSON: %w", err)
	}

	var rows []db.OreMappingRow
	for _, tier := range []map[string]map[string]int64{
		mappings.R4, mappings.R8, mappings.R16, mappings.R32, mappings.R64,
	} {
		for oreName, materials := range tier {
			for materialName := range materials {
				if !catalog.IsReactionMaterial(materialName) {
					continue
				}
				rows = append(rows, db.OreMappingRow{
					OreName:      oreName,
					MaterialName: materialName,
				})
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OreName != rows[j].OreName {
			return rows[i].OreName < rows[j].OreName
		}
		return rows[i].MaterialName < rows[j].MaterialName
	})

	store := db.NewOreMappingStore(s.db)
	if err := store.BulkInsertMappings(ctx, rows); err != nil {
		return fmt.Errorf("inserting ore mappings: %w", err)
	}

	if err := s.db.SetSyncMetadata(ctx, "mappings_last_sync", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := s.db.SetSyncMetadata(ctx, "mappings_count", fmt.Sprintf("%d", len(rows))); err != nil {
		return err
	}

	return nil
}

// ClearAll removes all imported dataset rows.
func (s *Syncer) ClearAll(ctx context.Context) error {
	if err := db.NewReactionStore(s.db).ClearReactions(ctx); err != nil {
		return err
	}
	if err := db.NewOreMappingStore(s.db).ClearMappings(ctx); err != nil {
		return err
	}
	return nil
}
