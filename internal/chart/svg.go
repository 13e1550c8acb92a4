package chart

import (
	"io"
	"strconv"
	"strings"
)

// Colors used for up and down candles.
const (
	ColorUp   = "#22c55e"
	ColorDown = "#ef4444"
)

// WickStrokeWidth is the stroke width of wick lines.
const WickStrokeWidth = 2

// Color maps a direction to its fill and stroke color.
func (d Direction) Color() string {
	if d == Up {
		return ColorUp
	}
	return ColorDown
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteSVG writes g as a standalone SVG document.
func WriteSVG(w io.Writer, g *Geometry) error {
	var b strings.Builder
	b.Grow(160 + len(g.Candles)*220)

	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)
	b.WriteString(num(g.Width))
	b.WriteByte(' ')
	b.WriteString(num(g.Height))
	b.WriteString(`" preserveAspectRatio="xMidYMid meet">`)

	for _, c := range g.Candles {
		color := c.Direction.Color()
		b.WriteString(`<g>`)
		b.WriteString(`<line x1="` + num(c.Wick.X1) + `" y1="` + num(c.Wick.Y1) +
			`" x2="` + num(c.Wick.X2) + `" y2="` + num(c.Wick.Y2) +
			`" stroke="` + color + `" stroke-width="` + strconv.Itoa(WickStrokeWidth) + `"/>`)
		b.WriteString(`<rect x="` + num(c.Body.X) + `" y="` + num(c.Body.Y) +
			`" width="` + num(c.Body.Width) + `" height="` + num(c.Body.Height) +
			`" fill="` + color + `"/>`)
		b.WriteString(`</g>`)
	}
	b.WriteString(`</svg>`)

	_, err := io.WriteString(w, b.String())
	return err
}

// SVG returns g as an SVG document string.
func SVG(g *Geometry) string {
	var b strings.Builder
	_ = WriteSVG(&b, g)
	return b.String()
}
