package wheel

import colorful "github.com/lucasb-eyer/go-colorful"

// Hue spreads wedge hues evenly around the color circle.
func Hue(index, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(index) * 360 / float64(count)
}

// WedgeColor returns the hex fill for wedge index of count.
func WedgeColor(index, count int, saturation, lightness float64) string {
	return colorful.Hsl(Hue(index, count), saturation, lightness).Hex()
}

// Palette returns every wedge fill for count wedges.
func Palette(count int, opts Options) []string {
	opts = opts.normalized()
	out := make([]string, 0, max(count, 0))
	for i := 0; i < count; i++ {
		out = append(out, WedgeColor(i, count, opts.Saturation, opts.Lightness))
	}
	return out
}
