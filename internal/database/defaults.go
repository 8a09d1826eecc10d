package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/cardshift/internal/database/repository"
)

// DefaultLanes are created on an empty database.
var DefaultLanes = []string{"Backlog", "Doing", "Done"}

// DefaultTemplates fill the palette on an empty database.
var DefaultTemplates = []string{"Bug", "Chore", "Spike"}

// LaneID derives a stable id from a lane name so reseeding is idempotent.
func LaneID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("lane:"+name)).String()
}

func TemplateID(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("template:"+title)).String()
}

// SeedDefaults ensures baseline lanes and templates exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	laneRepo := repository.NewLaneRepo(db)
	existing, err := laneRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for idx, name := range DefaultLanes {
			if err := laneRepo.Upsert(ctx, repository.Lane{ID: LaneID(name), Name: name, Position: idx}); err != nil {
				return err
			}
		}
	}

	tmplRepo := repository.NewTemplateRepo(db)
	templates, err := tmplRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(templates) > 0 {
		return nil
	}
	for idx, title := range DefaultTemplates {
		if err := tmplRepo.Upsert(ctx, repository.Template{ID: TemplateID(title), Title: title, Position: idx}); err != nil {
			return err
		}
	}
	return nil
}
