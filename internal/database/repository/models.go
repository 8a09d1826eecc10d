package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// Lane represents a lane row.
type Lane struct {
	ID       string
	Name     string
	Position int
	WIPLimit int
}

// Card represents a card row. Archived cards keep their last lane.
type Card struct {
	ID         string
	LaneID     string
	Title      string
	Position   int
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Template is a palette entry cards are stamped from.
type Template struct {
	ID       string
	Title    string
	Position int
}

// Move is one entry in the move log.
type Move struct {
	ID      string
	CardID  string
	Title   string
	From    string
	To      string
	MovedAt time.Time
}
