package repository

import (
	"context"
	"database/sql"
)

// LaneRepo handles lanes.
type LaneRepo struct {
	db *sql.DB
}

func NewLaneRepo(db *sql.DB) *LaneRepo { return &LaneRepo{db: db} }

func (r *LaneRepo) Upsert(ctx context.Context, l Lane) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO lanes(id, name, position, wip_limit) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, position=excluded.position, wip_limit=excluded.wip_limit;
	`, l.ID, l.Name, l.Position, l.WIPLimit)
	return err
}

func (r *LaneRepo) ByName(ctx context.Context, name string) (*Lane, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, position, wip_limit FROM lanes WHERE name = ? COLLATE NOCASE`, name)
	var l Lane
	if err := row.Scan(&l.ID, &l.Name, &l.Position, &l.WIPLimit); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LaneRepo) List(ctx context.Context) ([]Lane, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, position, wip_limit FROM lanes ORDER BY position, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Lane
	for rows.Next() {
		var l Lane
		if err := rows.Scan(&l.ID, &l.Name, &l.Position, &l.WIPLimit); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
