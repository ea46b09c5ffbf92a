package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// MoonStore persists the user's moon survey scans.
type MoonStore struct {
	db *DB
}

// NewMoonStore creates a new MoonStore.
func NewMoonStore(db *DB) *MoonStore {
	return &MoonStore{db: db}
}

// ListMoons retrieves all persisted moons with their materials, in
// insertion order.
func (s *MoonStore) ListMoons(ctx context.Context) ([]reaction.MoonComposition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM moons ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying moons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	var moons []reaction.MoonComposition
	for rows.Next() {
		var id int64
		var m reaction.MoonComposition
		if err := rows.Scan(&id, &m.Name); err != nil {
			return nil, fmt.Errorf("scanning moon: %w", err)
		}
		ids = append(ids, id)
		moons = append(moons, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range moons {
		materials, err := s.getMoonMaterials(ctx, ids[i])
		if err != nil {
			return nil, fmt.Errorf("loading materials for moon %q: %w", moons[i].Name, err)
		}
		moons[i].Materials = materials
	}

	return moons, nil
}

// getMoonMaterials retrieves the material rows for one moon.
func (s *MoonStore) getMoonMaterials(ctx context.Context, moonID int64) ([]reaction.MaterialEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, quantity, item_id, system_id, region_id, additional_id
		FROM moon_materials
		WHERE moon_id = ?
		ORDER BY rowid
	`, moonID)
	if err != nil {
		return nil, fmt.Errorf("querying moon materials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var materials []reaction.MaterialEntry
	for rows.Next() {
		var m reaction.MaterialEntry
		if err := rows.Scan(&m.Name, &m.Quantity, &m.ItemID, &m.SystemID, &m.RegionID, &m.AdditionalID); err != nil {
			return nil, fmt.Errorf("scanning moon material: %w", err)
		}
		materials = append(materials, m)
	}

	return materials, rows.Err()
}

// InsertMoons inserts moons with their materials in one transaction.
func (s *MoonStore) InsertMoons(ctx context.Context, moons []reaction.MoonComposition) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		moonStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO moons (name) VALUES (?)
		`)
		if err != nil {
			return fmt.Errorf("preparing moon statement: %w", err)
		}
		defer func() { _ = moonStmt.Close() }()

		matStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO moon_materials
			(moon_id, name, quantity, item_id, system_id, region_id, additional_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing material statement: %w", err)
		}
		defer func() { _ = matStmt.Close() }()

		for _, moon := range moons {
			res, err := moonStmt.ExecContext(ctx, moon.Name)
			if err != nil {
				return fmt.Errorf("inserting moon %q: %w", moon.Name, err)
			}
			moonID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("reading moon id for %q: %w", moon.Name, err)
			}

			for _, mat := range moon.Materials {
				_, err := matStmt.ExecContext(ctx,
					moonID, mat.Name, mat.Quantity,
					mat.ItemID, mat.SystemID, mat.RegionID, mat.AdditionalID,
				)
				if err != nil {
					return fmt.Errorf("inserting material for moon %q: %w", moon.Name, err)
				}
			}
		}

		return nil
	})
}

// DeleteMoon removes a moon (and its materials, via cascade) by name.
func (s *MoonStore) DeleteMoon(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM moons WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting moon %q: %w", name, err)
	}
	return nil
}
