package wheel

import (
	"math"
	"testing"

	"github.com/evanschultz/roulette/internal/roulette"
)

func TestBuildWedgesCoverCircle(t *testing.T) {
	s := Build([]string{"Cleaning", "Cooking", "Shopping"}, nil, 30, DefaultOptions())
	if len(s.Wedges) != 3 {
		t.Fatalf("expected 3 wedges, got %d", len(s.Wedges))
	}
	for i, w := range s.Wedges {
		if math.Abs((w.End-w.Start)-120) > 1e-9 {
			t.Fatalf("wedge %d width = %v, want 120", i, w.End-w.Start)
		}
		if math.Abs(w.Start-(float64(i)*120+30)) > 1e-9 {
			t.Fatalf("wedge %d start = %v", i, w.Start)
		}
		if w.Hue != float64(i)*120 {
			t.Fatalf("wedge %d hue = %v", i, w.Hue)
		}
	}
	if s.Wedges[0].Color == s.Wedges[1].Color {
		t.Fatal("expected distinct wedge colors")
	}
	if s.Hub.Radius <= 0 || s.Hub.Radius >= s.Radius {
		t.Fatalf("unexpected hub radius %v for wheel radius %v", s.Hub.Radius, s.Radius)
	}
}

func TestBuildPointersFixedAndAligned(t *testing.T) {
	members := []string{"Alice", "Bob", "Carol", "Dan"}
	a := Build(nil, members, 0, DefaultOptions())
	b := Build(nil, members, 123, DefaultOptions())
	wantAlign := []Align{AlignLeft, AlignRight, AlignRight, AlignLeft}
	for k, p := range a.Pointers {
		if p.Angle != float64(k)*90 {
			t.Fatalf("pointer %d angle = %v", k, p.Angle)
		}
		if p.Tip != b.Pointers[k].Tip {
			t.Fatalf("pointer %d moved with rotation", k)
		}
		if p.Align != wantAlign[k] {
			t.Fatalf("pointer %d align = %q, want %q", k, p.Align, wantAlign[k])
		}
		tipDist := math.Hypot(p.Tip.X-a.Center.X, p.Tip.Y-a.Center.Y)
		baseDist := math.Hypot(p.BaseLeft.X-a.Center.X, p.BaseLeft.Y-a.Center.Y)
		if tipDist <= a.Radius || tipDist >= baseDist {
			t.Fatalf("pointer %d should point inward from outside the rim: tip=%v base=%v radius=%v", k, tipDist, baseDist, a.Radius)
		}
	}
}

func TestLabelAlign(t *testing.T) {
	cases := map[float64]Align{0: AlignLeft, 89.9: AlignLeft, 90: AlignRight, 269.9: AlignRight, 270: AlignLeft, -90: AlignLeft, -91: AlignRight}
	for angle, want := range cases {
		if got := LabelAlign(angle); got != want {
			t.Fatalf("LabelAlign(%v) = %q, want %q", angle, got, want)
		}
	}
}

func TestWedgeUnderPointerMatchesEngine(t *testing.T) {
	tasks := []string{"a", "b", "c", "d", "e"}
	members := []string{"m1", "m2", "m3"}
	for _, rotation := range []float64{0, 17, 95.5, 400, 1000.25} {
		s := Build(tasks, members, rotation, DefaultOptions())
		for k, p := range s.Pointers {
			got := s.WedgeAt(p.Angle)
			want := roulette.SegmentIndex(k, len(members), len(tasks), rotation)
			if got != want {
				t.Fatalf("rotation=%v pointer %d: drawn wedge %d, engine wedge %d", rotation, k, got, want)
			}
		}
	}
}

func TestPalette(t *testing.T) {
	p := Palette(4, Options{})
	if len(p) != 4 {
		t.Fatalf("expected 4 colors, got %d", len(p))
	}
	seen := map[string]struct{}{}
	for _, c := range p {
		if len(c) != 7 || c[0] != '#' {
			t.Fatalf("unexpected color %q", c)
		}
		seen[c] = struct{}{}
	}
	if len(seen) != 4 {
		t.Fatalf("expected distinct colors, got %v", p)
	}
	if got := Palette(0, Options{}); len(got) != 0 {
		t.Fatalf("expected empty palette, got %v", got)
	}
}
