package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/cardshift/internal/database/repository"
)

// ErrDuplicate is returned when a lane already holds a card with a nearly
// identical title.
var ErrDuplicate = errors.New("near-duplicate card")

// ErrNoLane is returned for a lane name that does not exist.
var ErrNoLane = errors.New("no such lane")

// minSimilarity is the score above which two titles count as the same card.
const minSimilarity = 0.85

// Similarity scores two titles in [0,1], ignoring case and surrounding space.
func Similarity(a, b string) float64 {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Similar reports whether a and b would read as the same card.
func Similar(a, b string) bool {
	return Similarity(a, b) >= minSimilarity
}

// AddCard appends a card to the named lane, refusing a title that is similar
// to one the lane already holds.
func AddCard(ctx context.Context, store Store, laneName, title string) (repository.Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return repository.Card{}, errors.New("card title is empty")
	}
	lane, err := store.Lanes.ByName(ctx, laneName)
	if err != nil {
		return repository.Card{}, err
	}
	if lane == nil {
		return repository.Card{}, fmt.Errorf("%q: %w", laneName, ErrNoLane)
	}
	existing, err := store.Cards.ListByLane(ctx, lane.ID)
	if err != nil {
		return repository.Card{}, err
	}
	for _, c := range existing {
		if Similar(c.Title, title) {
			return c, fmt.Errorf("%q looks like %q in %s: %w", title, c.Title, lane.Name, ErrDuplicate)
		}
	}
	return store.Cards.Insert(ctx, repository.Card{LaneID: lane.ID, Title: title, Position: len(existing)})
}
