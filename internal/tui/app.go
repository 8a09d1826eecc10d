// Package tui is the bubbletea front end: it feeds mouse events through the
// long-press recognizer into the drag coordinator and draws the board with
// any card in flight on top.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/cardshift/internal/board"
	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/geom"
	"github.com/jask/cardshift/internal/gesture"
	"github.com/jask/cardshift/internal/layout"
)

// Options configure the drag handling of an App.
type Options struct {
	Drag              []dnd.Option
	AllowableMovement int
	Logger            zerolog.Logger
}

// App is the board screen.
type App struct {
	board *board.Board
	coord *dnd.Coordinator
	rec   *gesture.Recognizer
	keys  keyMap
	help  help.Model
	log   zerolog.Logger

	width, height int
	status        string
	failed        bool
}

// pressElapsedMsg fires when a press has been held for the minimum time.
type pressElapsedMsg struct{ gen int }

// New wires a coordinator and recognizer over b's containers.
func New(b *board.Board, opts Options) (*App, error) {
	coord, err := dnd.New(b.Overlay(), b.Containers(), opts.Drag...)
	if err != nil {
		return nil, fmt.Errorf("drag coordinator: %w", err)
	}
	rec := gesture.New(coord, gesture.Options{
		MinPress:          coord.MinPress(),
		AllowableMovement: opts.AllowableMovement,
		Logger:            opts.Logger,
	})
	return &App{
		board:  b,
		coord:  coord,
		rec:    rec,
		keys:   newKeyMap(),
		help:   help.New(),
		log:    opts.Logger.With().Str("component", "tui").Logger(),
		status: "hold a card to pick it up",
	}, nil
}

// Run starts the program with mouse motion reporting on.
func Run(a *App) error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		a.board.Layout(a.boardArea())
	case tea.MouseMsg:
		return a, a.handleMouse(m)
	case pressElapsedMsg:
		snap, _ := a.coord.Snapshot()
		if a.afterSignal(a.rec.Elapse(m.gen)) && a.rec.Dragging() {
			a.setStatus("dragging %s", itemTitle(snap.Item))
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(m, a.keys.Quit):
			a.afterSignal(a.rec.Cancel())
			return a, tea.Quit
		case key.Matches(m, a.keys.Cancel):
			if (a.rec.Dragging() || a.rec.Pending()) && a.afterSignal(a.rec.Cancel()) {
				a.setStatus("drag cancelled")
			}
		case key.Matches(m, a.keys.Reload):
			a.reload()
		case key.Matches(m, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
		}
	}
	return a, nil
}

func (a *App) handleMouse(m tea.MouseMsg) tea.Cmd {
	p := geom.Pt(m.X, m.Y)
	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft {
			return nil
		}
		gen, ok := a.rec.Press(p)
		if !ok {
			return nil
		}
		return tea.Tick(a.rec.MinPress(), func(time.Time) tea.Msg { return pressElapsedMsg{gen: gen} })
	case tea.MouseActionMotion:
		a.afterSignal(a.rec.Motion(p))
	case tea.MouseActionRelease:
		snap, ok := a.coord.Snapshot()
		dragging := a.rec.Dragging()
		if a.afterSignal(a.rec.Release(p)) && ok && dragging {
			a.describeDrop(snap)
		}
	}
	return nil
}

// afterSignal reports a failed signal and returns false. The board may have
// dropped a card from memory the store never moved, so it is reloaded.
func (a *App) afterSignal(err error) bool {
	if err == nil {
		err = a.board.TakeErr()
	}
	if err == nil {
		return true
	}
	a.log.Warn().Err(err).Msg("drag failed")
	a.setError(err)
	if rerr := a.board.Reload(); rerr != nil {
		a.log.Error().Err(rerr).Msg("reload after failed drag")
	}
	return false
}

func (a *App) describeDrop(snap dnd.Snapshot) {
	title := itemTitle(snap.Item)
	if snap.Current == "" || snap.Current == snap.Source {
		a.setStatus("%s stayed in %s", title, label(snap.Source))
		return
	}
	a.setStatus("%s → %s", title, label(snap.Current))
}

func (a *App) reload() {
	if a.coord.Active() {
		a.setStatus("finish the drag before reloading")
		return
	}
	if err := a.board.Reload(); err != nil {
		a.setError(err)
		return
	}
	a.setStatus("reloaded")
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.failed = false
}

func (a *App) setError(err error) {
	a.status = "error: " + err.Error()
	a.failed = true
}

// boardArea leaves a header row above the board and the status and help
// rows below it.
func (a *App) boardArea() geom.Rect {
	return geom.R(0, 1, a.width, max(0, a.height-3))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}
	status := statusStyle.Render(a.status)
	if a.failed {
		status = errorStyle.Render(a.status)
	}
	bindings := a.keys.ShortHelp()
	if a.help.ShowAll {
		bindings = nil
		for _, group := range a.keys.FullHelp() {
			bindings = append(bindings, group...)
		}
	}
	helpView := a.help.ShortHelpView(bindings)
	base := strings.Join([]string{
		headerStyle.Render("cardshift"),
		a.board.Render(),
		status,
		helpView,
	}, "\n")
	return layout.Compose(base, a.width, a.height, a.board.Floats()...)
}

func itemTitle(item dnd.Item) string {
	if c, ok := item.(*board.Card); ok {
		return fmt.Sprintf("%q", c.Title)
	}
	return "item"
}

func label(id string) string {
	if name, ok := strings.CutPrefix(id, "lane:"); ok {
		return name
	}
	return id
}
