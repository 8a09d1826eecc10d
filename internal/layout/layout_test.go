package layout

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/cardshift/internal/geom"
)

type box struct {
	id string
}

func (b box) ID() string { return b.id }
func (b box) Bounds() geom.Rect { return geom.Rect{} }

type rep struct {
	frame geom.Rect
}

func (r *rep) Frame() geom.Rect     { return r.frame }
func (r *rep) SetFrame(f geom.Rect) { r.frame = f }
func (r *rep) SetAlpha(float64)     {}

func TestNodeWalk(t *testing.T) {
	t.Parallel()

	screen := NewNode("screen", geom.R(0, 0, 120, 40), nil)
	board := NewNode("board", geom.R(2, 3, 100, 30), screen)
	lane := NewNode("lane", geom.R(10, 1, 20, 20), board)
	body := NewNode("body", geom.R(1, 2, 18, 17), lane)

	r := geom.R(0, 0, 5, 1)
	require.Equal(t, geom.R(13, 6, 5, 1), body.ToAncestor(r, screen))
	require.Equal(t, geom.R(11, 3, 5, 1), body.ToAncestor(r, board))
	require.Equal(t, r, body.ToAncestor(r, body))
	require.Equal(t, r, body.FromAncestor(body.ToAncestor(r, screen), screen))

	stray := NewNode("stray", geom.R(50, 50, 1, 1), nil)
	require.Equal(t, geom.R(13, 6, 5, 1), body.ToAncestor(r, stray), "walk stops at the root")
	require.Equal(t, geom.R(0, 0, 18, 17), body.Bounds())
}

func TestOverlayConversions(t *testing.T) {
	t.Parallel()

	root := NewNode("root", geom.R(0, 0, 80, 24), nil)
	lane := NewNode("lane", geom.R(20, 2, 20, 10), root)
	ov := NewOverlay(root)
	ov.Bind("doing", lane)

	c := box{id: "doing"}
	require.Equal(t, geom.R(21, 5, 18, 1), ov.ToOverlay(c, geom.R(1, 3, 18, 1)))
	require.Equal(t, geom.R(1, 3, 18, 1), ov.FromOverlay(c, geom.R(21, 5, 18, 1)))
	require.Equal(t, geom.R(1, 1, 1, 1), ov.ToOverlay(box{id: "unbound"}, geom.R(1, 1, 1, 1)))

	n, ok := ov.NodeFor("doing")
	require.True(t, ok)
	require.Same(t, lane, n)
}

func TestOverlayAttachDetach(t *testing.T) {
	t.Parallel()

	ov := NewOverlay(NewNode("root", geom.R(0, 0, 10, 10), nil))
	a, b := &rep{}, &rep{}
	ov.Attach(a)
	ov.Attach(a)
	ov.Attach(b)
	require.Len(t, ov.Floating(), 2)
	ov.Detach(a)
	require.Len(t, ov.Floating(), 1)
	require.Same(t, b, ov.Floating()[0].(*rep))
	ov.Detach(a)
	ov.Detach(b)
	require.Empty(t, ov.Floating())
}

func TestComposeKeepsBase(t *testing.T) {
	t.Parallel()

	base := strings.Join([]string{
		"row-0.........",
		"row-1.........",
		"row-2.........",
		"row-3.........",
	}, "\n")
	out := Compose(base, 14, 4, Layer{X: 6, Y: 1, Content: "CARD\nCARD"})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "row-0.........", lines[0])
	require.Equal(t, "row-1.CARD....", lines[1])
	require.Equal(t, "row-2.CARD....", lines[2])
	require.Equal(t, "row-3.........", lines[3])
}

func TestComposeClipsOffscreenLayers(t *testing.T) {
	t.Parallel()

	base := "abcdefgh\nijklmnop"
	out := Compose(base, 8, 2,
		Layer{X: -2, Y: 0, Content: "XYZ"},
		Layer{X: 6, Y: 1, Content: "1234"},
		Layer{X: 0, Y: 5, Content: "gone"},
	)
	lines := strings.Split(out, "\n")
	require.Equal(t, "Zbcdefgh", lines[0])
	require.Equal(t, "ijklmn12", lines[1])
	require.Equal(t, "", Compose(base, 0, 2))
}

func TestComposeOverStyledBase(t *testing.T) {
	t.Parallel()

	red := func(s string) string { return "\x1b[31m" + s + "\x1b[0m" }
	row := red("│") + " • alpha      " + red("│") + red("│") + " • beta       " + red("│")
	require.Equal(t, 32, ansi.StringWidth(row))

	out := Compose(row, 32, 1, Layer{X: 3, Y: 0, Content: "XXXX"})
	require.Equal(t, 32, ansi.StringWidth(out))
	require.Equal(t, "│ •XXXXha      ││ • beta       │", ansi.Strip(out))

	out = Compose(row, 32, 1, Layer{X: -1, Y: 0, Content: red("ab")})
	require.Equal(t, 32, ansi.StringWidth(out))
	require.Equal(t, "b • alpha      ││ • beta       │", ansi.Strip(out))
}

func TestComposeFaintKeepsText(t *testing.T) {
	t.Parallel()

	out := Compose("........", 8, 1, Layer{X: 2, Y: 0, Content: "ab", Faint: true})
	require.Equal(t, "..ab....", ansi.Strip(out))
}

func TestPaneRender(t *testing.T) {
	t.Parallel()

	out := Pane{Title: "Doing (2)", Rows: []string{"write tests", "a very long card title indeed"}}.Render(16, 5)
	lines := strings.Split(ansi.Strip(out), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		require.Equal(t, 16, ansi.StringWidth(line))
	}
	require.Contains(t, lines[0], "Doing (2)")
	require.Contains(t, lines[1], "write tests")
	require.Contains(t, lines[2], "…")
	require.True(t, strings.HasPrefix(lines[4], "╰"))
}
