package cli

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"candle-analyzer/internal/chart"
	"candle-analyzer/internal/models"
)

// TruncateString never exceeds the requested length and leaves short
// strings untouched.
func TestProperty_TruncateString(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("result fits maxLen", prop.ForAll(
		func(s string, maxLen int) bool {
			out := TruncateString(s, maxLen)
			if utf8.RuneCountInString(out) > maxLen {
				t.Logf("TruncateString(%q, %d) = %q", s, maxLen, out)
				return false
			}
			if utf8.RuneCountInString(s) <= maxLen && out != s {
				return false
			}
			return true
		},
		gen.AnyString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

// Every rendered candle leaves at least one glyph in its own column.
func TestProperty_SketchMarksEveryCandle(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	candleGen := gen.SliceOfN(4, gen.Float64Range(0, 100)).Map(func(v []float64) models.Candle {
		open, close := v[0], v[1]
		return models.Candle{
			Open:  open,
			High:  math.Max(open, close) + v[2],
			Low:   math.Min(open, close) - v[3],
			Close: close,
		}
	})

	properties.Property("one marked column per candle", prop.ForAll(
		func(candles []models.Candle) bool {
			if len(candles) == 0 {
				return true
			}
			g, err := chart.Render(candles)
			if err != nil {
				return false
			}

			cols, rows := 40, 12
			grid := Sketch(g, cols, rows)
			if len(grid) != rows {
				return false
			}
			marked := map[int]bool{}
			for _, line := range grid {
				if len(line) != cols {
					return false
				}
				for x, cell := range line {
					if cell.Glyph != glyphEmpty {
						marked[x] = true
					}
				}
			}
			return len(marked) == len(candles)
		},
		gen.SliceOfN(4, candleGen),
	))

	properties.TestingRun(t)
}

func TestFormatOHLC(t *testing.T) {
	got := FormatOHLC(models.Candle{Open: 70, High: 72, Low: 20, Close: 68.5})
	if got != "O: 70  H: 72  L: 20  C: 68.5" {
		t.Errorf("unexpected %q", got)
	}
}
