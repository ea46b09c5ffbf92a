package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// ReactionStore handles reaction formula data access.
type ReactionStore struct {
	db *DB
}

// NewReactionStore creates a new ReactionStore.
func NewReactionStore(db *DB) *ReactionStore {
	return &ReactionStore{db: db}
}

// GetAllReactions retrieves every reaction formula with its inputs.
// The catalog is built from this in one shot at startup.
func (s *ReactionStore) GetAllReactions(ctx context.Context) ([]reaction.Reaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT formula_id, formula_name, output_item_id, output_item_name, output_quantity
		FROM reactions
		ORDER BY formula_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying reactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reactions []reaction.Reaction
	for rows.Next() {
		var r reaction.Reaction
		if err := rows.Scan(
			&r.FormulaID,
			&r.FormulaName,
			&r.Output.ID,
			&r.Output.Name,
			&r.Output.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scanning reaction: %w", err)
		}
		reactions = append(reactions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reactions {
		inputs, err := s.getReactionInputs(ctx, reactions[i].FormulaID)
		if err != nil {
			return nil, fmt.Errorf("loading inputs for formula %d: %w", reactions[i].FormulaID, err)
		}
		reactions[i].Inputs = inputs
	}

	return reactions, nil
}

// getReactionInputs retrieves the input items for a formula.
func (s *ReactionStore) getReactionInputs(ctx context.Context, formulaID int64) ([]reaction.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, item_name, quantity
		FROM reaction_inputs
		WHERE formula_id = ?
		ORDER BY item_id
	`, formulaID)
	if err != nil {
		return nil, fmt.Errorf("querying reaction inputs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var inputs []reaction.Item
	for rows.Next() {
		var in reaction.Item
		if err := rows.Scan(&in.ID, &in.Name, &in.Quantity); err != nil {
			return nil, fmt.Errorf("scanning reaction input: %w", err)
		}
		inputs = append(inputs, in)
	}

	return inputs, rows.Err()
}

// CountReactions returns the total number of formulas.
func (s *ReactionStore) CountReactions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting reactions: %w", err)
	}
	return count, nil
}

// BulkInsertReactions inserts multiple formulas in a transaction.
func (s *ReactionStore) BulkInsertReactions(ctx context.Context, reactions []reaction.Reaction) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		reactionStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO reactions
			(formula_id, formula_name, output_item_id, output_item_name, output_quantity)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing reaction statement: %w", err)
		}
		defer func() { _ = reactionStmt.Close() }()

		inputStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO reaction_inputs (formula_id, item_id, item_name, quantity)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing input statement: %w", err)
		}
		defer func() { _ = inputStmt.Close() }()

		for _, r := range reactions {
			_, err := reactionStmt.ExecContext(ctx,
				r.FormulaID, r.FormulaName,
				r.Output.ID, r.Output.Name, r.Output.Quantity,
			)
			if err != nil {
				return fmt.Errorf("inserting formula %d: %w", r.FormulaID, err)
			}

			for _, in := range r.Inputs {
				_, err := inputStmt.ExecContext(ctx, r.FormulaID, in.ID, in.Name, in.Quantity)
				if err != nil {
					return fmt.Errorf("inserting input for formula %d: %w", r.FormulaID, err)
				}
			}
		}

		return nil
	})
}

// ClearReactions removes all formula data (for re-sync).
func (s *ReactionStore) ClearReactions(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		// Foreign keys cascade delete the inputs
		_, err := tx.ExecContext(ctx, `DELETE FROM reactions`)
		return err
	})
}
