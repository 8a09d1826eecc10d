// Package board holds the kanban containers the drag coordinator moves
// cards between, and the glue that loads them from and writes them back to
// the database.
package board

import (
	"database/sql"

	"github.com/jask/cardshift/internal/database/repository"
)

// Store bundles the repositories the board writes through.
type Store struct {
	Lanes     *repository.LaneRepo
	Cards     *repository.CardRepo
	Templates *repository.TemplateRepo
	Moves     *repository.MoveRepo
}

func NewStore(db *sql.DB) Store {
	return Store{
		Lanes:     repository.NewLaneRepo(db),
		Cards:     repository.NewCardRepo(db),
		Templates: repository.NewTemplateRepo(db),
		Moves:     repository.NewMoveRepo(db),
	}
}
