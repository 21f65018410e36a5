// Package main prints the wedge palette the wheel uses for a given task count.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/evanschultz/roulette/internal/wheel"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

// run parses flags and writes the palette table.
func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	defaults := wheel.DefaultOptions()
	var (
		count      int
		saturation float64
		lightness  float64
		names      string
	)
	fs.IntVar(&count, "n", 6, "number of wedges")
	fs.Float64Var(&saturation, "s", defaults.Saturation, "HSL saturation in (0,1]")
	fs.Float64Var(&lightness, "l", defaults.Lightness, "HSL lightness in (0,1)")
	fs.StringVar(&names, "names", "", "comma-separated task names (overrides -n)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	labels := splitNames(names)
	if len(labels) > 0 {
		count = len(labels)
	}
	if count <= 0 {
		return fmt.Errorf("wedge count must be > 0, got %d", count)
	}
	if saturation <= 0 || saturation > 1 || lightness <= 0 || lightness >= 1 {
		return fmt.Errorf("saturation must be in (0,1] and lightness in (0,1)")
	}

	palette := wheel.Palette(count, wheel.Options{Size: defaults.Size, Saturation: saturation, Lightness: lightness})
	_, err := fmt.Fprintln(stdout, paletteTable(palette, labels).Render())
	return err
}

// paletteTable lays out one row per wedge with a color swatch.
func paletteTable(palette, labels []string) *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("Wedge", "Task", "Hue", "Hex", "Sample").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
			}
			return lipgloss.NewStyle()
		})

	for i, hex := range palette {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		sample := lipgloss.NewStyle().
			Background(lipgloss.Color(hex)).
			Foreground(contrastColor(hex)).
			Width(12).
			Align(lipgloss.Center).
			Render(coalesce(label, hex))
		t.Row(
			strconv.Itoa(i),
			label,
			strconv.FormatFloat(wheel.Hue(i, len(palette)), 'f', 1, 64),
			hex,
			sample,
		)
	}
	return t
}

// contrastColor picks black or white text for a swatch background.
func contrastColor(hex string) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return lipgloss.Color("15")
	}
	if l, _, _ := c.Lab(); l > 0.6 {
		return lipgloss.Color("0")
	}
	return lipgloss.Color("15")
}

func splitNames(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func coalesce(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}
