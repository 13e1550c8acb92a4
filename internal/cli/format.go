package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"candle-analyzer/internal/chart"
	"candle-analyzer/internal/models"
)

// FormatPrice formats a price without trailing zeros.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// FormatCoord formats a viewport coordinate.
func FormatCoord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatOHLC formats OHLC data.
func FormatOHLC(c models.Candle) string {
	return fmt.Sprintf("O: %s  H: %s  L: %s  C: %s",
		FormatPrice(c.Open), FormatPrice(c.High), FormatPrice(c.Low), FormatPrice(c.Close))
}

// FormatLine formats a wick segment.
func FormatLine(l chart.Line) string {
	return fmt.Sprintf("(%s,%s)-(%s,%s)", FormatCoord(l.X1), FormatCoord(l.Y1), FormatCoord(l.X2), FormatCoord(l.Y2))
}

// FormatRect formats a body rectangle.
func FormatRect(r chart.Rect) string {
	return fmt.Sprintf("x=%s y=%s w=%s h=%s", FormatCoord(r.X), FormatCoord(r.Y), FormatCoord(r.Width), FormatCoord(r.Height))
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

// Sketch glyphs.
const (
	glyphWick  = '│'
	glyphBody  = '█'
	glyphEmpty = ' '
)

// SketchCell is one character of a terminal sketch.
type SketchCell struct {
	Glyph     rune
	Direction chart.Direction
}

// Sketch rasterizes geometry onto a cols x rows character grid. Each candle
// gets one column; bodies overwrite wicks.
func Sketch(g *chart.Geometry, cols, rows int) [][]SketchCell {
	grid := make([][]SketchCell, rows)
	for i := range grid {
		grid[i] = make([]SketchCell, cols)
		for j := range grid[i] {
			grid[i][j].Glyph = glyphEmpty
		}
	}
	if g == nil || cols <= 0 || rows <= 0 || g.Width <= 0 || g.Height <= 0 {
		return grid
	}

	col := func(x float64) int { return clamp(int(x/g.Width*float64(cols)), cols) }
	row := func(y float64) int { return clamp(int(y/g.Height*float64(rows)), rows) }

	for _, c := range g.Candles {
		x := col(c.Wick.X1)
		for r := row(c.Wick.Y1); r <= row(c.Wick.Y2); r++ {
			grid[r][x] = SketchCell{Glyph: glyphWick, Direction: c.Direction}
		}
		top := row(c.Body.Y)
		bottom := row(math.Max(c.Body.Y, c.Body.Y+c.Body.Height-1e-9))
		for r := top; r <= bottom; r++ {
			grid[r][x] = SketchCell{Glyph: glyphBody, Direction: c.Direction}
		}
	}
	return grid
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
