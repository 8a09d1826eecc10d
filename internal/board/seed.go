package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/cardshift/internal/database"
	"github.com/jask/cardshift/internal/database/repository"
)

// Seed is a board file:
//
//	lanes:
//	  - name: Backlog
//	    wip_limit: 5
//	    cards: [Write docs, Fix login]
//	templates: [Bug, Chore]
type Seed struct {
	Lanes     []SeedLane `yaml:"lanes"`
	Templates []string   `yaml:"templates"`
}

type SeedLane struct {
	Name     string   `yaml:"name"`
	WIPLimit int      `yaml:"wip_limit"`
	Cards    []string `yaml:"cards"`
}

// SeedResult counts what Apply wrote.
type SeedResult struct {
	Lanes     int
	Cards     int
	Skipped   int
	Templates int
}

func ParseSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Seed{}, nil
		}
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	seen := map[string]bool{}
	for i, l := range s.Lanes {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return Seed{}, fmt.Errorf("parse seed: lane %d has no name", i+1)
		}
		if seen[strings.ToLower(name)] {
			return Seed{}, fmt.Errorf("parse seed: lane %q listed twice", name)
		}
		seen[strings.ToLower(name)] = true
		if l.WIPLimit < 0 {
			return Seed{}, fmt.Errorf("parse seed: lane %q has a negative wip_limit", name)
		}
		s.Lanes[i].Name = name
	}
	return s, nil
}

// Apply writes s into the store. Lanes are matched by name and placed after
// the existing ones; cards similar to one already in the lane are skipped,
// so applying the same file twice is harmless.
func Apply(ctx context.Context, store Store, s Seed) (SeedResult, error) {
	var res SeedResult
	existing, err := store.Lanes.List(ctx)
	if err != nil {
		return res, err
	}
	next := len(existing)
	for _, sl := range s.Lanes {
		lane, err := store.Lanes.ByName(ctx, sl.Name)
		if err != nil {
			return res, err
		}
		if lane == nil {
			lane = &repository.Lane{ID: database.LaneID(sl.Name), Name: sl.Name, Position: next}
			next++
			res.Lanes++
		}
		lane.WIPLimit = sl.WIPLimit
		if err := store.Lanes.Upsert(ctx, *lane); err != nil {
			return res, fmt.Errorf("lane %s: %w", sl.Name, err)
		}
		for _, title := range sl.Cards {
			_, err := AddCard(ctx, store, lane.Name, title)
			switch {
			case errors.Is(err, ErrDuplicate):
				res.Skipped++
			case err != nil:
				return res, fmt.Errorf("lane %s: %w", sl.Name, err)
			default:
				res.Cards++
			}
		}
	}

	templates, err := store.Templates.List(ctx)
	if err != nil {
		return res, err
	}
	have := map[string]bool{}
	for _, t := range templates {
		have[strings.ToLower(t.Title)] = true
	}
	for _, title := range s.Templates {
		title = strings.TrimSpace(title)
		if title == "" || have[strings.ToLower(title)] {
			continue
		}
		have[strings.ToLower(title)] = true
		t := repository.Template{ID: database.TemplateID(title), Title: title, Position: len(templates) + res.Templates}
		if err := store.Templates.Upsert(ctx, t); err != nil {
			return res, fmt.Errorf("template %s: %w", title, err)
		}
		res.Templates++
	}
	return res, nil
}
