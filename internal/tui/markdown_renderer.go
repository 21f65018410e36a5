package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minResultsWrap keeps the results table readable on narrow terminals.
const minResultsWrap = 24

// resultsStyle is the glamour standard style used for the results table.
const resultsStyle = "dark"

// markdownRenderer renders the results table and keeps one glamour renderer
// per wrap width. It falls back to the raw markdown when glamour fails.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown into ANSI-styled terminal text wrapped at width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	wrapWidth := max(width, minResultsWrap)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(resultsStyle),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n")
}
