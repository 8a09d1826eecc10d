package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Reset wipes the board: moves, cards, templates and lanes. The schema is
// kept, so SeedDefaults can rebuild the default board right after.
func Reset(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("reset: db not configured")
	}
	if err := WithTx(db, func(tx *sql.Tx) error {
		for _, t := range []string{"moves", "cards", "templates", "lanes"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = db.ExecContext(ctx, "VACUUM")
	return nil
}
