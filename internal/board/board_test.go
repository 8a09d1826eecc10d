package board

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/cardshift/internal/database"
	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
)

func newStore(t *testing.T) (context.Context, Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	db, err := database.Prepare(filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))
	return ctx, NewStore(db)
}

func addCards(t *testing.T, ctx context.Context, store Store, lane string, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := AddCard(ctx, store, lane, title)
		require.NoError(t, err)
	}
}

func storedTitles(t *testing.T, ctx context.Context, store Store, lane string) []string {
	t.Helper()
	l, err := store.Lanes.ByName(ctx, lane)
	require.NoError(t, err)
	require.NotNil(t, l)
	cards, err := store.Cards.ListByLane(ctx, l.ID)
	require.NoError(t, err)
	out := []string{}
	for _, c := range cards {
		out = append(out, c.Title)
	}
	return out
}

// harness lays the board out at 120x20 starting on screen row 1:
// palette x 0-19, Backlog 20-45, Doing 46-71, Done 72-99, archive 100-119.
// Card row i of any column sits on screen row 2+i.
type harness struct {
	ctx   context.Context
	store Store
	b     *Board
	c     *dnd.Coordinator
}

func newHarness(t *testing.T, opts Options, seed func(context.Context, Store)) *harness {
	t.Helper()
	ctx, store := newStore(t)
	if seed != nil {
		seed(ctx, store)
	}
	b, err := New(ctx, store, opts)
	require.NoError(t, err)
	b.Layout(geom.R(0, 1, 120, 20))
	c, err := dnd.New(b.Overlay(), b.Containers())
	require.NoError(t, err)
	return &harness{ctx: ctx, store: store, b: b, c: c}
}

func (h *harness) drag(t *testing.T, from geom.Point, path ...geom.Point) {
	t.Helper()
	require.True(t, h.c.Claim(from), "claim at %v", from)
	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Began, Point: from}))
	for _, p := range path {
		require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Changed, Point: p}))
	}
}

func (h *harness) release(t *testing.T) {
	t.Helper()
	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Ended}))
	require.NoError(t, h.b.TakeErr())
}

func threeInBacklog(ctx context.Context, store Store) {
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		if _, err := AddCard(ctx, store, "Backlog", title); err != nil {
			panic(err)
		}
	}
}

func TestLayoutColumns(t *testing.T) {
	h := newHarness(t, Options{}, nil)
	require.Equal(t, geom.R(0, 0, 20, 20), h.b.Palette.node.Frame)
	require.Equal(t, geom.R(20, 0, 26, 20), h.b.Lanes[0].node.Frame)
	require.Equal(t, geom.R(46, 0, 26, 20), h.b.Lanes[1].node.Frame)
	require.Equal(t, geom.R(72, 0, 28, 20), h.b.Lanes[2].node.Frame)
	require.Equal(t, geom.R(100, 0, 20, 20), h.b.Archive.node.Frame)

	r := h.b.Overlay().ToOverlay(h.b.Lanes[1], geom.R(2, 1, 22, 1))
	require.Equal(t, geom.R(48, 2, 22, 1), r)
}

func TestMoveCardAcrossLanes(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	backlog, doing := h.b.Lane("backlog"), h.b.Lane("Doing")

	h.drag(t, geom.Pt(25, 3), geom.Pt(50, 2))
	require.True(t, backlog.hidden, "source hides the lifted card once it leaves")
	require.True(t, doing.hovered)
	require.Equal(t, "Beta", doing.ghost.Title)
	require.Len(t, h.b.Floats(), 1)
	require.True(t, h.b.Floats()[0].Faint)

	h.release(t)
	require.Empty(t, h.b.Floats())
	require.Equal(t, []string{"Alpha", "Gamma"}, backlog.Titles())
	require.Equal(t, []string{"Beta"}, doing.Titles())
	require.Equal(t, []string{"Alpha", "Gamma"}, storedTitles(t, h.ctx, h.store, "Backlog"))
	require.Equal(t, []string{"Beta"}, storedTitles(t, h.ctx, h.store, "Doing"))

	moves, err := h.store.Moves.Recent(h.ctx, 5)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	require.Equal(t, "Beta", moves[0].Title)
	require.Equal(t, "Backlog", moves[0].From)
	require.Equal(t, "Doing", moves[0].To)
}

func TestOverlapMetricDecidesLaneHandoff(t *testing.T) {
	// A Backlog float at x 36-57 covers 10 cells of Backlog and 12 of Doing.
	for _, tc := range []struct {
		metric dnd.OverlapMetric
		want   string
	}{
		{dnd.MetricLegacy, "lane:Backlog"},
		{dnd.MetricWidth, "lane:Doing"},
	} {
		t.Run(tc.metric.String(), func(t *testing.T) {
			h := newHarness(t, Options{}, threeInBacklog)
			c, err := dnd.New(h.b.Overlay(), h.b.Containers(), dnd.WithOverlapMetric(tc.metric))
			require.NoError(t, err)
			h.c = c

			h.drag(t, geom.Pt(25, 2), geom.Pt(39, 2))
			snap, ok := h.c.Snapshot()
			require.True(t, ok)
			require.Equal(t, geom.R(36, 2, 22, 1), snap.Frame)
			require.Equal(t, tc.want, snap.Current)
			require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Cancelled}))
		})
	}
}

func TestDropPositionFollowsGhost(t *testing.T) {
	h := newHarness(t, Options{}, func(ctx context.Context, s Store) {
		threeInBacklog(ctx, s)
		addCards(t, ctx, s, "Doing", "One", "Two")
	})
	// Row 1 of Doing is screen row 3.
	h.drag(t, geom.Pt(25, 2), geom.Pt(50, 3))
	require.Equal(t, 1, h.b.Lane("Doing").ghostAt)
	h.release(t)
	require.Equal(t, []string{"One", "Alpha", "Two"}, storedTitles(t, h.ctx, h.store, "Doing"))
}

func TestReorderWithinLane(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	backlog := h.b.Lane("Backlog")

	h.drag(t, geom.Pt(25, 2), geom.Pt(25, 3), geom.Pt(25, 4))
	require.Equal(t, []string{"Beta", "Gamma", "Alpha"}, backlog.Titles())
	h.release(t)

	require.Equal(t, []string{"Beta", "Gamma", "Alpha"}, storedTitles(t, h.ctx, h.store, "Backlog"))
	moves, err := h.store.Moves.Recent(h.ctx, 5)
	require.NoError(t, err)
	require.Empty(t, moves, "a reorder is not a move")
}

func TestDriftBeforeBeganLiftsClaimedCard(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	backlog := h.b.Lane("Backlog")

	require.True(t, h.c.Claim(geom.Pt(25, 2)))
	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Began, Point: geom.Pt(25, 3)}))
	require.Equal(t, "Alpha", backlog.lifted.Title)

	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Changed, Point: geom.Pt(25, 4)}))
	require.Equal(t, []string{"Beta", "Gamma", "Alpha"}, backlog.Titles())
	h.release(t)

	require.Equal(t, []string{"Beta", "Gamma", "Alpha"}, storedTitles(t, h.ctx, h.store, "Backlog"))
}

func TestDriftBeforeBeganMarksClaimedTemplate(t *testing.T) {
	h := newHarness(t, Options{}, nil)

	require.True(t, h.c.Claim(geom.Pt(5, 2)))
	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Began, Point: geom.Pt(5, 3)}))
	require.Equal(t, 0, h.b.Palette.active)
	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Cancelled}))
	require.Equal(t, -1, h.b.Palette.active)
}

func TestCancelRestoresOrder(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	backlog := h.b.Lane("Backlog")

	h.drag(t, geom.Pt(25, 2), geom.Pt(25, 4))
	require.Equal(t, []string{"Beta", "Gamma", "Alpha"}, backlog.Titles())
	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Cancelled}))

	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, backlog.Titles())
	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, storedTitles(t, h.ctx, h.store, "Backlog"))
	require.Nil(t, backlog.lifted)
}

func TestCancelAfterCrossingClearsGhost(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	doing := h.b.Lane("Doing")

	h.drag(t, geom.Pt(25, 3), geom.Pt(50, 2))
	require.NotNil(t, doing.ghost)
	require.NoError(t, h.c.Handle(dnd.Signal{Phase: dnd.Cancelled}))

	require.Nil(t, doing.ghost)
	require.False(t, doing.hovered)
	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, h.b.Lane("Backlog").Titles())
	require.Empty(t, storedTitles(t, h.ctx, h.store, "Doing"))
}

func TestReturnToSourceDoesNotMove(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	backlog := h.b.Lane("Backlog")

	h.drag(t, geom.Pt(25, 3), geom.Pt(50, 3), geom.Pt(25, 3))
	require.False(t, backlog.hidden)
	require.Nil(t, h.b.Lane("Doing").ghost)
	h.release(t)

	require.Equal(t, []string{"Alpha", "Beta", "Gamma"}, storedTitles(t, h.ctx, h.store, "Backlog"))
	require.Empty(t, storedTitles(t, h.ctx, h.store, "Doing"))
}

func TestStampTemplateIntoLane(t *testing.T) {
	h := newHarness(t, Options{}, nil)
	require.Equal(t, []string{"Bug", "Chore", "Spike"}, templateTitles(h.b.Palette))

	h.drag(t, geom.Pt(5, 2), geom.Pt(50, 3))
	require.Equal(t, 0, h.b.Palette.active)
	h.release(t)

	require.Equal(t, -1, h.b.Palette.active)
	require.Equal(t, []string{"Bug", "Chore", "Spike"}, templateTitles(h.b.Palette), "templates are copied")
	require.Equal(t, []string{"Bug"}, storedTitles(t, h.ctx, h.store, "Doing"))
	require.NotEmpty(t, h.b.Lane("Doing").cards[0].ID)
}

func templateTitles(p *Palette) []string {
	out := []string{}
	for _, t := range p.templates {
		out = append(out, t.Title)
	}
	return out
}

func TestArchiveDrop(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)

	h.drag(t, geom.Pt(25, 4), geom.Pt(105, 4))
	require.True(t, h.b.Archive.hovered)
	h.release(t)

	require.Equal(t, []string{"Alpha", "Beta"}, storedTitles(t, h.ctx, h.store, "Backlog"))
	require.Equal(t, "Gamma", h.b.Archive.Recent()[0])
	archived, err := h.store.Cards.ListArchived(h.ctx, 5)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, "Gamma", archived[0].Title)
}

func TestTemplateOnArchiveIsDiscarded(t *testing.T) {
	h := newHarness(t, Options{}, nil)
	h.drag(t, geom.Pt(5, 2), geom.Pt(105, 4))
	h.release(t)

	archived, err := h.store.Cards.ListArchived(h.ctx, 5)
	require.NoError(t, err)
	require.Empty(t, archived)
}

func TestWIPLimitRefusesForeignCards(t *testing.T) {
	h := newHarness(t, Options{WIPLimit: 1}, func(ctx context.Context, s Store) {
		addCards(t, ctx, s, "Backlog", "Alpha")
		addCards(t, ctx, s, "Doing", "Busy")
	})
	doing := h.b.Lane("Doing")
	require.True(t, doing.full())

	h.drag(t, geom.Pt(25, 2), geom.Pt(50, 2))
	require.False(t, doing.hovered)
	require.Nil(t, doing.ghost)
	h.release(t)
	require.Equal(t, []string{"Busy"}, storedTitles(t, h.ctx, h.store, "Doing"))
	require.Equal(t, []string{"Alpha"}, storedTitles(t, h.ctx, h.store, "Backlog"))
}

func TestHeaderIsNotDroppable(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	lane := h.b.Lane("Doing")
	require.False(t, lane.CanAccept(geom.R(1, 0, 22, 1)))
	require.True(t, lane.CanAccept(geom.R(1, 1, 22, 1)))
	require.False(t, lane.CanAccept(geom.R(1, 19, 22, 1)), "bottom border")
}

func TestClaimMisses(t *testing.T) {
	h := newHarness(t, Options{}, threeInBacklog)
	require.False(t, h.c.Claim(geom.Pt(25, 1)), "lane header")
	require.False(t, h.c.Claim(geom.Pt(25, 5)), "empty row")
	require.False(t, h.c.Claim(geom.Pt(105, 2)), "archive is drop-only")
	require.False(t, h.c.Claim(geom.Pt(20, 2)), "lane border")
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	h := newHarness(t, Options{}, nil)
	addCards(t, h.ctx, h.store, "Done", "Shipped")
	require.Empty(t, h.b.Lane("Done").Titles())
	require.NoError(t, h.b.Reload())
	require.Equal(t, []string{"Shipped"}, h.b.Lane("Done").Titles())
}

func TestRenderAndText(t *testing.T) {
	h := newHarness(t, Options{WIPLimit: 4}, threeInBacklog)
	out := h.b.Render()
	require.Contains(t, out, "Backlog 3/4")
	require.Contains(t, out, "• Alpha")
	require.Contains(t, out, "+ Bug")

	text := h.b.Text()
	require.Contains(t, text, "Backlog (3)\n  - Alpha\n  - Beta\n  - Gamma\n")
	require.Contains(t, text, "Doing (0)\n")
}

func TestOrderChanged(t *testing.T) {
	a, b, c := &Card{Title: "a"}, &Card{Title: "b"}, &Card{Title: "c"}
	require.False(t, orderChanged([]*Card{a, b, c}, []*Card{a, b, c}))
	require.False(t, orderChanged([]*Card{a, b, c}, []*Card{a, c}))
	require.True(t, orderChanged([]*Card{a, b, c}, []*Card{b, a, c}))
	require.True(t, orderChanged([]*Card{a, b, c}, []*Card{c, a}))
}
