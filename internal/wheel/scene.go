// Package wheel computes drawing instructions for the roulette wheel and its
// member pointers, and rasterizes them for SVG export or terminal display.
//
// Build is pure: it turns rosters and a rotation into a Scene. The adapters in
// svg.go and raster.go only read a Scene.
package wheel

import (
	"math"

	"github.com/evanschultz/roulette/internal/roulette"
)

// DefaultSize is the reference drawing surface edge length.
const DefaultSize = 400

// Align selects which side of a pointer its label grows toward.
type Align string

// AlignLeft and AlignRight mirror canvas textAlign values.
const (
	AlignLeft  Align = "left"
	AlignRight Align = "right"
)

// Point is a position in scene units, y growing down.
type Point struct {
	X float64
	Y float64
}

// Options controls scene geometry and palette.
type Options struct {
	Size       float64
	Saturation float64
	Lightness  float64
}

// DefaultOptions returns the reference geometry.
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		Saturation: 0.65,
		Lightness:  0.6,
	}
}

// normalized fills zero fields with defaults.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Size <= 0 {
		o.Size = def.Size
	}
	if o.Saturation <= 0 || o.Saturation > 1 {
		o.Saturation = def.Saturation
	}
	if o.Lightness <= 0 || o.Lightness >= 1 {
		o.Lightness = def.Lightness
	}
	return o
}

// Wedge is one task's slice of the wheel, already rotated.
type Wedge struct {
	Index      int
	Name       string
	Start      float64
	End        float64
	Hue        float64
	Color      string
	Label      Point
	LabelAngle float64
}

// Pointer is one member's fixed marker outside the rim.
type Pointer struct {
	Index     int
	Name      string
	Angle     float64
	Tip       Point
	BaseLeft  Point
	BaseRight Point
	Label     Point
	Align     Align
}

// Hub is the neutral disc covering the wedge apex.
type Hub struct {
	Center Point
	Radius float64
	Color  string
}

// Scene holds every drawing instruction for one frame.
type Scene struct {
	Size          float64
	Center        Point
	Radius        float64
	PointerLength float64
	Rotation      float64
	Wedges        []Wedge
	Hub           Hub
	Pointers      []Pointer
}

// hubColor is the neutral hub fill.
const hubColor = "#f2f2f2"

// Build computes the wheel for tasks rotated by rotation, plus one pointer per member.
func Build(tasks, members []string, rotation float64, opts Options) Scene {
	opts = opts.normalized()
	scene := newScene(rotation, opts)
	scene.Wedges = buildWedges(scene, tasks, opts)
	scene.Pointers = buildPointers(scene, members)
	return scene
}

// newScene lays out the fixed geometry for a surface size.
func newScene(rotation float64, opts Options) Scene {
	half := opts.Size / 2
	radius := opts.Size * 0.36
	return Scene{
		Size:          opts.Size,
		Center:        Point{X: half, Y: half},
		Radius:        radius,
		PointerLength: opts.Size * 0.05,
		Rotation:      rotation,
		Hub: Hub{
			Center: Point{X: half, Y: half},
			Radius: radius * 0.15,
			Color:  hubColor,
		},
	}
}

// buildWedges lays out T equal wedges starting at angle 0, rotated as one body.
func buildWedges(scene Scene, tasks []string, opts Options) []Wedge {
	if len(tasks) == 0 {
		return nil
	}
	seg := roulette.SegmentAngle(len(tasks))
	out := make([]Wedge, 0, len(tasks))
	for i, name := range tasks {
		start := float64(i)*seg + scene.Rotation
		mid := start + seg/2
		hue := Hue(i, len(tasks))
		out = append(out, Wedge{
			Index:      i,
			Name:       name,
			Start:      start,
			End:        start + seg,
			Hue:        hue,
			Color:      WedgeColor(i, len(tasks), opts.Saturation, opts.Lightness),
			Label:      pointAt(scene.Center, scene.Radius*0.65, mid),
			LabelAngle: roulette.NormalizeAngle(mid),
		})
	}
	return out
}

// buildPointers places one inward-facing triangle per member at k·360/M.
func buildPointers(scene Scene, members []string) []Pointer {
	if len(members) == 0 {
		return nil
	}
	out := make([]Pointer, 0, len(members))
	baseRadius := scene.Radius + scene.PointerLength
	halfBase := scene.PointerLength * 0.4
	for k, name := range members {
		angle := roulette.PointerAngle(k, len(members))
		base := pointAt(scene.Center, baseRadius, angle)
		perp := angle + 90
		out = append(out, Pointer{
			Index:     k,
			Name:      name,
			Angle:     angle,
			Tip:       pointAt(scene.Center, scene.Radius+2, angle),
			BaseLeft:  offset(base, halfBase, perp),
			BaseRight: offset(base, -halfBase, perp),
			Label:     pointAt(scene.Center, baseRadius+scene.Size*0.015, angle),
			Align:     LabelAlign(angle),
		})
	}
	return out
}

// LabelAlign keeps pointer labels off the wheel: labels on the right half grow
// rightward (left-aligned), labels on the left half grow leftward.
func LabelAlign(angle float64) Align {
	a := roulette.NormalizeAngle(angle)
	if a < 90 || a >= 270 {
		return AlignLeft
	}
	return AlignRight
}

// WedgeAt returns the wedge index drawn at screen angle, or -1 when the scene has no wedges.
func (s Scene) WedgeAt(angle float64) int {
	if len(s.Wedges) == 0 {
		return -1
	}
	seg := roulette.SegmentAngle(len(s.Wedges))
	idx := int(math.Floor(roulette.NormalizeAngle(angle-s.Rotation)/seg + 1e-9))
	return idx % len(s.Wedges)
}

// pointAt returns the point at radius r and angle deg around c.
func pointAt(c Point, r, deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: c.X + r*math.Cos(rad), Y: c.Y + r*math.Sin(rad)}
}

// offset moves p by dist along deg.
func offset(p Point, dist, deg float64) Point {
	return pointAt(p, dist, deg)
}
