package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/cardshift/internal/database/repository"
)

func openTestDB(t *testing.T) (context.Context, *repository.LaneRepo, *repository.TemplateRepo) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	db, err := Prepare(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, SeedDefaults(ctx, db))
	return ctx, repository.NewLaneRepo(db), repository.NewTemplateRepo(db)
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		db, err := Prepare(path)
		require.NoError(t, err)
		require.NoError(t, SeedDefaults(ctx, db))
		require.NoError(t, SeedDefaults(ctx, db))
		require.NoError(t, db.Close())
	}

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	got, err := repository.NewLaneRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(DefaultLanes))
	for i, l := range got {
		require.Equal(t, DefaultLanes[i], l.Name)
		require.Equal(t, LaneID(l.Name), l.ID)
	}
}

func TestSeedDefaultsTemplates(t *testing.T) {
	t.Parallel()

	ctx, lanes, templates := openTestDB(t)
	got, err := templates.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(DefaultTemplates))
	require.Equal(t, "Bug", got[0].Title)

	doing, err := lanes.ByName(ctx, "doing")
	require.NoError(t, err)
	require.NotNil(t, doing)
	require.Equal(t, "Doing", doing.Name)

	missing, err := lanes.ByName(ctx, "Blocked")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestResetRestoresDefaultBoard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Prepare(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, SeedDefaults(ctx, db))

	lanes := repository.NewLaneRepo(db)
	require.NoError(t, lanes.Upsert(ctx, repository.Lane{ID: LaneID("Review"), Name: "Review", Position: 3}))
	cards := repository.NewCardRepo(db)
	_, err = cards.Insert(ctx, repository.Card{LaneID: LaneID("Backlog"), Title: "Alpha"})
	require.NoError(t, err)

	require.NoError(t, Reset(ctx, db))
	got, err := lanes.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, SeedDefaults(ctx, db))
	got, err = lanes.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(DefaultLanes))
	left, err := cards.ListByLane(ctx, LaneID("Backlog"))
	require.NoError(t, err)
	require.Empty(t, left)

	require.Error(t, Reset(ctx, nil))
}
