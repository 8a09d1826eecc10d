package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CardRepo handles cards. Positions are dense and zero-based within a lane;
// every write renumbers the lanes it touches.
type CardRepo struct {
	db *sql.DB
}

func NewCardRepo(db *sql.DB) *CardRepo { return &CardRepo{db: db} }

const cardColumns = `id, lane_id, title, position, archived_at, created_at, updated_at`

func scanCard(s interface{ Scan(...any) error }) (Card, error) {
	var (
		c        Card
		archived sql.NullTime
	)
	if err := s.Scan(&c.ID, &c.LaneID, &c.Title, &c.Position, &archived, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Card{}, err
	}
	if archived.Valid {
		t := archived.Time
		c.ArchivedAt = &t
	}
	return c, nil
}

func (r *CardRepo) ByID(ctx context.Context, id string) (Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return Card{}, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	return c, err
}

// ListByLane returns the live cards of a lane in order.
func (r *CardRepo) ListByLane(ctx context.Context, laneID string) ([]Card, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT `+cardColumns+` FROM cards
	WHERE lane_id = ? AND archived_at IS NULL
	ORDER BY position, created_at`, laneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListArchived returns archived cards, most recent first.
func (r *CardRepo) ListArchived(ctx context.Context, limit int) ([]Card, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT `+cardColumns+` FROM cards
	WHERE archived_at IS NOT NULL
	ORDER BY archived_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Insert adds c to its lane at c.Position, clamped to the lane length. An
// empty ID is generated. The stored card is returned.
func (r *CardRepo) Insert(ctx context.Context, c Card) (Card, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		ids, err := laneOrder(ctx, tx, c.LaneID, "")
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO cards(id, lane_id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, c.LaneID, c.Title, len(ids), ts, ts); err != nil {
			return err
		}
		ids, c.Position = insertAt(ids, c.ID, c.Position)
		return renumber(ctx, tx, ids)
	})
	if err != nil {
		return Card{}, fmt.Errorf("insert card: %w", err)
	}
	return c, nil
}

// Move puts card id into laneID at pos, clamped, closing the gap it leaves.
// Moving within the same lane reorders it.
func (r *CardRepo) Move(ctx context.Context, id, laneID string, pos int) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var from string
		err := tx.QueryRowContext(ctx, `SELECT lane_id FROM cards WHERE id = ? AND archived_at IS NULL`, id).Scan(&from)
		if err == sql.ErrNoRows {
			return fmt.Errorf("card %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if from != laneID {
			rest, err := laneOrder(ctx, tx, from, id)
			if err != nil {
				return err
			}
			if err := renumber(ctx, tx, rest); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE cards SET lane_id = ?, updated_at = ? WHERE id = ?`,
				laneID, now(), id); err != nil {
				return err
			}
		}
		ids, err := laneOrder(ctx, tx, laneID, id)
		if err != nil {
			return err
		}
		ids, _ = insertAt(ids, id, pos)
		return renumber(ctx, tx, ids)
	})
	if err != nil {
		return fmt.Errorf("move card: %w", err)
	}
	return nil
}

// Reorder sets the order of a lane. ids must name exactly the lane's live
// cards.
func (r *CardRepo) Reorder(ctx context.Context, laneID string, ids []string) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := laneOrder(ctx, tx, laneID, "")
		if err != nil {
			return err
		}
		if !sameSet(current, ids) {
			return fmt.Errorf("lane %s has %d cards, order names %d", laneID, len(current), len(ids))
		}
		return renumber(ctx, tx, ids)
	})
	if err != nil {
		return fmt.Errorf("reorder lane: %w", err)
	}
	return nil
}

// Archive hides a card from its lane.
func (r *CardRepo) Archive(ctx context.Context, id string) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var laneID string
		err := tx.QueryRowContext(ctx, `SELECT lane_id FROM cards WHERE id = ? AND archived_at IS NULL`, id).Scan(&laneID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("card %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		ts := now()
		if _, err := tx.ExecContext(ctx, `UPDATE cards SET archived_at = ?, updated_at = ? WHERE id = ?`, ts, ts, id); err != nil {
			return err
		}
		rest, err := laneOrder(ctx, tx, laneID, "")
		if err != nil {
			return err
		}
		return renumber(ctx, tx, rest)
	})
	if err != nil {
		return fmt.Errorf("archive card: %w", err)
	}
	return nil
}

// laneOrder lists the live card ids of a lane in order, leaving out skip.
func laneOrder(ctx context.Context, tx *sql.Tx, laneID, skip string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
	SELECT id FROM cards WHERE lane_id = ? AND archived_at IS NULL AND id <> ?
	ORDER BY position, created_at`, laneID, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func renumber(ctx context.Context, tx *sql.Tx, ids []string) error {
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE cards SET position = ? WHERE id = ?`, i, id); err != nil {
			return err
		}
	}
	return nil
}

func insertAt(ids []string, id string, pos int) ([]string, int) {
	pos = max(0, min(pos, len(ids)))
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:pos]...)
	out = append(out, id)
	out = append(out, ids[pos:]...)
	return out, pos
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
