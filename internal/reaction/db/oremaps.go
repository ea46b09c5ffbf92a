package db

import (
	"context"
	"database/sql"
	"fmt"
)

// OreMappingStore handles ore-to-material mapping data access.
type OreMappingStore struct {
	db *DB
}

// NewOreMappingStore creates a new OreMappingStore.
func NewOreMappingStore(db *DB) *OreMappingStore {
	return &OreMappingStore{db: db}
}

// OreMappingRow is one base-ore -> material pair.
type OreMappingRow struct {
	OreName      string
	MaterialName string
}

// GetAllMappings retrieves every ore-to-material mapping row.
func (s *OreMappingStore) GetAllMappings(ctx context.Context) ([]OreMappingRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ore_name, material_name
		FROM ore_mappings
		ORDER BY ore_name, material_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying ore mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []OreMappingRow
	for rows.Next() {
		var m OreMappingRow
		if err := rows.Scan(&m.OreName, &m.MaterialName); err != nil {
			return nil, fmt.Errorf("scanning ore mapping: %w", err)
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}

// CountMappings returns the total number of mapping rows.
func (s *OreMappingStore) CountMappings(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ore_mappings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting ore mappings: %w", err)
	}
	return count, nil
}

// BulkInsertMappings inserts mapping rows in a transaction.
func (s *OreMappingStore) BulkInsertMappings(ctx context.Context, mappings []OreMappingRow) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO ore_mappings (ore_name, material_name)
			VALUES (?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing mapping statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, m := range mappings {
			if _, err := stmt.ExecContext(ctx, m.OreName, m.MaterialName); err != nil {
				return fmt.Errorf("inserting mapping %s -> %s: %w", m.OreName, m.MaterialName, err)
			}
		}

		return nil
	})
}

// ClearMappings removes all ore mapping data (for re-sync).
func (s *OreMappingStore) ClearMappings(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ore_mappings`)
	if err != nil {
		return fmt.Errorf("clearing ore mappings: %w", err)
	}
	return nil
}
