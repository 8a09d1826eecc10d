package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// MoveRepo records card moves.
type MoveRepo struct {
	db *sql.DB
}

func NewMoveRepo(db *sql.DB) *MoveRepo { return &MoveRepo{db: db} }

// Record appends m to the log, filling ID and MovedAt when unset.
func (r *MoveRepo) Record(ctx context.Context, m Move) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.MovedAt.IsZero() {
		m.MovedAt = now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO moves(id, card_id, title, from_name, to_name, moved_at) VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.CardID, m.Title, m.From, m.To, m.MovedAt)
	return err
}

// Recent returns up to limit moves, newest first.
func (r *MoveRepo) Recent(ctx context.Context, limit int) ([]Move, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, card_id, title, from_name, to_name, moved_at FROM moves
	ORDER BY moved_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Move
	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.ID, &m.CardID, &m.Title, &m.From, &m.To, &m.MovedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
