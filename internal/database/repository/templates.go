package repository

import (
	"context"
	"database/sql"
)

// TemplateRepo handles palette templates.
type TemplateRepo struct {
	db *sql.DB
}

func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

func (r *TemplateRepo) Upsert(ctx context.Context, t Template) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO templates(id, title, position) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET title=excluded.title, position=excluded.position;
	`, t.ID, t.Title, t.Position)
	return err
}

func (r *TemplateRepo) List(ctx context.Context) ([]Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, position FROM templates ORDER BY position, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Title, &t.Position); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
