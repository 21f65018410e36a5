package tui

import (
	"strings"
	"testing"
)

func TestMarkdownRendererCachesPerWidth(t *testing.T) {
	r := &markdownRenderer{}
	if got := r.render("  \n", 80); got != "" {
		t.Fatalf("expected blank markdown to render empty, got %q", got)
	}

	table := "| Member | Task |\n| --- | --- |\n| Alice | Cleaning |"
	out := r.render(table, 80)
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "Cleaning") {
		t.Fatalf("expected rendered table, got %q", out)
	}
	first := r.renderer
	if first == nil || r.width != 80 {
		t.Fatalf("expected renderer cached at width 80, got %d", r.width)
	}

	_ = r.render(table, 80)
	if r.renderer != first {
		t.Fatal("expected renderer reused for the same width")
	}
	_ = r.render(table, 4)
	if r.renderer == first || r.width != minResultsWrap {
		t.Fatalf("expected new renderer clamped to %d, got %d", minResultsWrap, r.width)
	}
}
