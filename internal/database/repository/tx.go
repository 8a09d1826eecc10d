package repository

import (
	"context"
	"database/sql"
	"time"
)

// now is the timestamp stored on writes, in UTC at the precision SQLite keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
