package wheel

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// WriteSVG draws scene as a standalone SVG document.
func WriteSVG(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(s.Size), num(s.Size), num(s.Size), num(s.Size))
	fmt.Fprintf(bw, `  <g id="wheel" font-family="sans-serif" font-size="%s">`+"\n", num(s.Size*0.035))
	for _, wedge := range s.Wedges {
		writeWedge(bw, s, wedge)
	}
	fmt.Fprintf(bw, `    <circle cx="%s" cy="%s" r="%s" fill="%s" stroke="#999999"/>`+"\n",
		num(s.Hub.Center.X), num(s.Hub.Center.Y), num(s.Hub.Radius), s.Hub.Color)
	bw.WriteString("  </g>\n")
	fmt.Fprintf(bw, `  <g id="pointers" font-family="sans-serif" font-size="%s">`+"\n", num(s.Size*0.035))
	for _, p := range s.Pointers {
		fmt.Fprintf(bw, `    <polygon points="%s,%s %s,%s %s,%s" fill="#333333"/>`+"\n",
			num(p.Tip.X), num(p.Tip.Y), num(p.BaseLeft.X), num(p.BaseLeft.Y), num(p.BaseRight.X), num(p.BaseRight.Y))
		anchor := "start"
		if p.Align == AlignRight {
			anchor = "end"
		}
		fmt.Fprintf(bw, `    <text x="%s" y="%s" text-anchor="%s" dominant-baseline="middle" fill="#333333">%s</text>`+"\n",
			num(p.Label.X), num(p.Label.Y), anchor, escape(p.Name))
	}
	bw.WriteString("  </g>\n</svg>\n")
	return bw.Flush()
}

// writeWedge draws one wedge and its bisector label.
func writeWedge(w io.Writer, s Scene, wedge Wedge) {
	if len(s.Wedges) == 1 {
		fmt.Fprintf(w, `    <circle cx="%s" cy="%s" r="%s" fill="%s" stroke="#ffffff"/>`+"\n",
			num(s.Center.X), num(s.Center.Y), num(s.Radius), wedge.Color)
	} else {
		start := pointAt(s.Center, s.Radius, wedge.Start)
		end := pointAt(s.Center, s.Radius, wedge.End)
		largeArc := 0
		if wedge.End-wedge.Start > 180 {
			largeArc = 1
		}
		fmt.Fprintf(w, `    <path d="M %s %s L %s %s A %s %s 0 %d 1 %s %s Z" fill="%s" stroke="#ffffff"/>`+"\n",
			num(s.Center.X), num(s.Center.Y), num(start.X), num(start.Y),
			num(s.Radius), num(s.Radius), largeArc, num(end.X), num(end.Y), wedge.Color)
	}
	fmt.Fprintf(w, `    <text x="%s" y="%s" transform="rotate(%s %s %s)" text-anchor="middle" dominant-baseline="middle" fill="#111111">%s</text>`+"\n",
		num(wedge.Label.X), num(wedge.Label.Y), num(wedge.LabelAngle), num(wedge.Label.X), num(wedge.Label.Y), escape(wedge.Name))
}

// num formats a coordinate with two decimals.
func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// escape escapes XML text content.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
