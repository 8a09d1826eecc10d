package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimilar(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Fix login bug", "fix login bug ", true},
		{"Fix login bug", "Fix logn bug", true},
		{"Fix login bug", "Write release notes", false},
		{"Ship", "Shop", false},
		{"", "", true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Similar(tc.a, tc.b), "%q vs %q (%.2f)", tc.a, tc.b, Similarity(tc.a, tc.b))
	}
}

func TestAddCardRefusesNearDuplicates(t *testing.T) {
	ctx, store := newStore(t)

	first, err := AddCard(ctx, store, "backlog", "Fix login bug")
	require.NoError(t, err)
	require.Equal(t, 0, first.Position)

	dup, err := AddCard(ctx, store, "Backlog", "Fix  login bug")
	require.ErrorIs(t, err, ErrDuplicate)
	require.Equal(t, first.ID, dup.ID)

	_, err = AddCard(ctx, store, "Doing", "Fix login bug")
	require.NoError(t, err, "other lanes may hold the same title")

	second, err := AddCard(ctx, store, "Backlog", "Write release notes")
	require.NoError(t, err)
	require.Equal(t, 1, second.Position)

	_, err = AddCard(ctx, store, "Nowhere", "x")
	require.ErrorIs(t, err, ErrNoLane)
	_, err = AddCard(ctx, store, "Backlog", "   ")
	require.Error(t, err)
}
