package wheel

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"
)

// Cell is one terminal character of a rasterized scene.
type Cell struct {
	Rune rune
	FG   string
	BG   string
}

// Grid is a rasterized scene, Rows lines of Cols cells.
type Grid struct {
	Cols  int
	Rows  int
	Cells [][]Cell
}

// pointerGlyphs are inward arrows by 45° octant, starting at 0° (→) and turning clockwise.
var pointerGlyphs = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// label colors for text drawn over wedges and on the background.
const (
	wedgeLabelColor   = "#111111"
	pointerLabelColor = "#eeeeee"
	pointerColor      = "#ff5f87"
)

// Rasterize samples scene at cell centers. Terminal cells are about twice as
// tall as wide, so a square scene wants rows ≈ cols/2.
func Rasterize(s Scene, cols, rows int) Grid {
	if cols <= 0 || rows <= 0 || s.Size <= 0 {
		return Grid{}
	}
	g := Grid{Cols: cols, Rows: rows, Cells: make([][]Cell, rows)}
	sx := s.Size / float64(cols)
	sy := s.Size / float64(rows)
	for r := 0; r < rows; r++ {
		row := make([]Cell, cols)
		for c := 0; c < cols; c++ {
			row[c] = Cell{Rune: ' '}
			x := (float64(c) + 0.5) * sx
			y := (float64(r) + 0.5) * sy
			dx, dy := x-s.Center.X, y-s.Center.Y
			dist := math.Hypot(dx, dy)
			switch {
			case dist <= s.Hub.Radius:
				row[c].BG = s.Hub.Color
			case dist <= s.Radius:
				if idx := s.WedgeAt(math.Atan2(dy, dx) * 180 / math.Pi); idx >= 0 {
					row[c].BG = s.Wedges[idx].Color
				}
			}
		}
		g.Cells[r] = row
	}

	for _, w := range s.Wedges {
		c, r := g.cellAt(w.Label, s)
		g.writeCentered(c, r, w.Name, wedgeLabelColor, wedgeLabelWidth(cols, len(s.Wedges)))
	}
	for _, p := range s.Pointers {
		mid := pointAt(s.Center, s.Radius+s.PointerLength/2, p.Angle)
		c, r := g.cellAt(mid, s)
		g.set(c, r, pointerGlyph(p.Angle), pointerColor)
		lc, lr := g.cellAt(p.Label, s)
		g.writeAligned(lc, lr, p.Name, p.Align)
	}
	return g
}

// pointerGlyph returns the arrow pointing from a pointer at angle toward the center.
func pointerGlyph(angle float64) rune {
	inward := math.Mod(math.Mod(angle+180, 360)+360, 360)
	return pointerGlyphs[int(math.Round(inward/45))%len(pointerGlyphs)]
}

// wedgeLabelWidth bounds wedge labels so neighbours do not overwrite each other.
func wedgeLabelWidth(cols, wedges int) int {
	width := cols / 4
	if wedges > 4 {
		width = cols / wedges
	}
	return max(3, width)
}

// cellAt maps a scene point to the cell containing it.
func (g Grid) cellAt(p Point, s Scene) (int, int) {
	c := int(math.Floor(p.X / s.Size * float64(g.Cols)))
	r := int(math.Floor(p.Y / s.Size * float64(g.Rows)))
	return c, r
}

// set writes one rune, keeping the cell background.
func (g Grid) set(c, r int, ch rune, fg string) {
	if r < 0 || r >= g.Rows || c < 0 || c >= g.Cols {
		return
	}
	g.Cells[r][c].Rune = ch
	g.Cells[r][c].FG = fg
}

// writeCentered writes text centered on column c, truncated to width.
func (g Grid) writeCentered(c, r int, text, fg string, width int) {
	runes := []rune(truncate(text, width))
	start := c - len(runes)/2
	for i, ch := range runes {
		g.set(start+i, r, ch, fg)
	}
}

// writeAligned writes a pointer label growing away from the wheel.
func (g Grid) writeAligned(c, r int, text string, align Align) {
	runes := []rune(text)
	start := c
	if align == AlignRight {
		start = c - len(runes) + 1
	}
	for i, ch := range runes {
		g.set(start+i, r, ch, pointerLabelColor)
	}
}

// PlainText returns the grid runes without styling.
func (g Grid) PlainText() string {
	lines := make([]string, 0, g.Rows)
	for _, row := range g.Cells {
		var b strings.Builder
		for _, cell := range row {
			b.WriteRune(cell.Rune)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// Render returns the grid as styled terminal text, one lipgloss run per color change.
func (g Grid) Render() string {
	lines := make([]string, 0, g.Rows)
	for _, row := range g.Cells {
		var b strings.Builder
		var run strings.Builder
		runFG, runBG := "", ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styleFor(runFG, runBG).Render(run.String()))
			run.Reset()
		}
		for i, cell := range row {
			if i == 0 || cell.FG != runFG || cell.BG != runBG {
				flush()
				runFG, runBG = cell.FG, cell.BG
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// styleFor builds the style for one color run.
func styleFor(fg, bg string) lipgloss.Style {
	style := lipgloss.NewStyle()
	if fg != "" {
		style = style.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		style = style.Background(lipgloss.Color(bg))
	}
	return style
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
