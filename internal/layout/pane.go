package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Pane is a bordered box with a title in the top border. Rows are drawn one
// per line inside the border and clipped to the inner width.
type Pane struct {
	Title  string
	Rows   []string
	Target bool // a drag is hovering over this pane
	Muted  bool
}

var (
	paneBorder       = lipgloss.Color("#6c7086")
	paneTargetBorder = lipgloss.Color("#a6e3a1")
	paneText         = lipgloss.Color("#cdd6f4")
	paneMutedText    = lipgloss.Color("#7f849c")
)

// Render draws the pane at exactly width x height cells. Panes smaller than
// 4x3 are widened to fit their border.
func (p Pane) Render(width, height int) string {
	width = max(width, 4)
	height = max(height, 3)

	border := paneBorder
	if p.Target {
		border = paneTargetBorder
	}
	text := paneText
	if p.Muted {
		text = paneMutedText
	}
	borderStyle := lipgloss.NewStyle().Foreground(border)
	titleStyle := lipgloss.NewStyle().Foreground(text).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(text)

	innerWidth := width - 2
	contentWidth := innerWidth - 2

	titleText := " " + strings.TrimSpace(p.Title) + " "
	if ansi.StringWidth(titleText) > innerWidth {
		titleText = ansi.Truncate(titleText, innerWidth, "")
	}
	dashes := innerWidth - ansi.StringWidth(titleText)
	leftDash := min(1, dashes)
	rightDash := dashes - leftDash

	v := borderStyle.Render("│")
	rows := make([]string, 0, height)
	rows = append(rows, borderStyle.Render("╭"+strings.Repeat("─", leftDash))+
		titleStyle.Render(titleText)+
		borderStyle.Render(strings.Repeat("─", rightDash)+"╮"))
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(p.Rows) {
			line = ansi.Truncate(p.Rows[i], contentWidth, "…")
		}
		rows = append(rows, v+" "+rowStyle.Render(padRightANSI(line, contentWidth))+" "+v)
	}
	rows = append(rows, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))
	return strings.Join(rows, "\n")
}
