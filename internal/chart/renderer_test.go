package chart

import (
	"math"
	"reflect"
	"testing"

	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/models"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func TestRender_SingleHammerCandle(t *testing.T) {
	g, err := Render([]models.Candle{{Open: 70, High: 72, Low: 20, Close: 68}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(g.Candles) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(g.Candles))
	}
	c := g.Candles[0]

	// minVal=20 maxVal=72 valRange=52 yBuffer=5.2, so the scale spans 14.8..77.2
	yOf := func(v float64) float64 { return 140 - ((v-14.8)/62.4)*130 }

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"wick x", c.Wick.X1, 100},
		{"wick top", c.Wick.Y1, yOf(72)},
		{"wick bottom", c.Wick.Y2, yOf(20)},
		{"body x", c.Body.X, 80},
		{"body width", c.Body.Width, 40},
		{"body top", c.Body.Y, yOf(70)},
		{"body height", c.Body.Height, yOf(68) - yOf(70)},
	}
	for _, tt := range tests {
		if !approx(tt.got, tt.want) {
			t.Errorf("%s: expected %.6f, got %.6f", tt.name, tt.want, tt.got)
		}
	}

	if math.Abs(c.Wick.Y1-20.8333) > 1e-3 {
		t.Errorf("wick top should be about 20.83, got %f", c.Wick.Y1)
	}
	if math.Abs(c.Wick.Y2-129.1667) > 1e-3 {
		t.Errorf("wick bottom should be about 129.17, got %f", c.Wick.Y2)
	}
	if c.Direction != Down {
		t.Errorf("close 68 < open 70 should be down, got %s", c.Direction)
	}
	if g.Width != 200 || g.Height != 150 {
		t.Errorf("unexpected canvas %vx%v", g.Width, g.Height)
	}
}

func TestRender_EmptyInput(t *testing.T) {
	g, err := Render(nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if g != nil {
		t.Errorf("expected no geometry, got %+v", g)
	}

	if _, err := Render([]models.Candle{}); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero-length slice, got %v", err)
	}
}

func TestRender_FlatCandlesHaveMinimumHeight(t *testing.T) {
	g, err := Render([]models.Candle{
		{Open: 50, High: 60, Low: 40, Close: 50},
		{Open: 55, High: 65, Low: 45, Close: 55},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i, c := range g.Candles {
		if c.Body.Height != 1 {
			t.Errorf("candle %d: expected body height exactly 1, got %v", i, c.Body.Height)
		}
		if c.Direction != Down {
			t.Errorf("candle %d: open == close should be down, got %s", i, c.Direction)
		}
	}
}

func TestRender_DegenerateRange(t *testing.T) {
	candles := []models.Candle{
		{Open: 10, High: 10, Low: 10, Close: 10},
		{Open: 10, High: 10, Low: 10, Close: 10},
		{Open: 10, High: 10, Low: 10, Close: 10},
	}
	g, err := Render(candles)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// valRange substituted with 1: scale spans 9.9..11.1
	want := 140 - (0.1/1.2)*130
	for i, c := range g.Candles {
		for _, v := range []float64{c.Wick.X1, c.Wick.Y1, c.Wick.Y2, c.Body.X, c.Body.Y, c.Body.Width, c.Body.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("candle %d: non-finite coordinate in %+v", i, c)
			}
		}
		if !approx(c.Wick.Y1, want) || !approx(c.Wick.Y2, want) {
			t.Errorf("candle %d: expected wick at %f, got %f..%f", i, want, c.Wick.Y1, c.Wick.Y2)
		}
		if c.Body.Height != 1 {
			t.Errorf("candle %d: expected body height 1, got %v", i, c.Body.Height)
		}
	}
}

func TestRender_HorizontalLayout(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		spacing   float64
		bodyWidth float64
	}{
		{"single candle caps width", 1, 100, 40},
		{"three candles", 3, 50, 50 / 1.5},
		{"dense chart shrinks bodies", 9, 20, 20 / 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := make([]models.Candle, tt.n)
			for i := range candles {
				candles[i] = models.Candle{Open: 1, High: 3, Low: 0, Close: 2}
			}
			g, err := Render(candles)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			for i, c := range g.Candles {
				x := tt.spacing * float64(i+1)
				if !approx(c.Wick.X1, x) || !approx(c.Wick.X2, x) {
					t.Errorf("candle %d: expected x %f, got %f", i, x, c.Wick.X1)
				}
				if !approx(c.Body.Width, tt.bodyWidth) {
					t.Errorf("candle %d: expected body width %f, got %f", i, tt.bodyWidth, c.Body.Width)
				}
				if !approx(c.Body.X, x-tt.bodyWidth/2) {
					t.Errorf("candle %d: body not centered on wick", i)
				}
			}
		})
	}
}

func TestRender_Classification(t *testing.T) {
	tests := []struct {
		name   string
		candle models.Candle
		want   Direction
	}{
		{"close above open", models.Candle{Open: 48, High: 80, Low: 46, Close: 78}, Up},
		{"close below open", models.Candle{Open: 60, High: 62, Low: 50, Close: 52}, Down},
		{"tie is down", models.Candle{Open: 50, High: 70, Low: 30, Close: 50}, Down},
		{"tiny gain is up", models.Candle{Open: 50, High: 70, Low: 30, Close: 50.5}, Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Render([]models.Candle{tt.candle})
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if got := g.Candles[0].Direction; got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRender_ToleratesInvertedCandles(t *testing.T) {
	// low above high, open outside the range
	g, err := Render([]models.Candle{{Open: 100, High: 10, Low: 20, Close: 5}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(g.Candles) != 1 {
		t.Fatalf("expected one candle, got %d", len(g.Candles))
	}
	c := g.Candles[0]
	if !(c.Body.Height > 0) {
		t.Errorf("expected positive body height, got %v", c.Body.Height)
	}

	// Range is taken over highs and lows together: [10, 20], buffer 1.
	y := func(v float64) float64 { return 140 - ((v-9)/12)*130 }
	if !approx(c.Body.Y, y(100)) || !approx(c.Body.Height, y(5)-y(100)) {
		t.Errorf("expected body %v/%v, got %v/%v", y(100), y(5)-y(100), c.Body.Y, c.Body.Height)
	}
	if !approx(c.Wick.Y1, y(10)) || !approx(c.Wick.Y2, y(20)) {
		t.Errorf("unexpected wick %+v", c.Wick)
	}
}

func TestRender_Idempotent(t *testing.T) {
	candles := []models.Candle{
		{Open: 80, High: 82, Low: 30, Close: 32},
		{Open: 22, High: 28, Low: 18, Close: 24},
		{Open: 35, High: 90, Low: 33, Close: 88},
	}
	a, err := Render(candles)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, _ := Render(candles)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical geometry for identical input")
	}
	if SVG(a) != SVG(b) {
		t.Error("expected byte-identical SVG for identical input")
	}
}

func TestNewRenderer_CustomCanvas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Padding = 400, 300, 20
	r, err := NewRenderer(cfg)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	g, err := r.Render([]models.Candle{{Open: 0, High: 10, Low: 0, Close: 10}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	c := g.Candles[0]
	// scale spans -1..11 over 260 pixels
	if !approx(c.Wick.Y1, 280-(11.0/12.0)*260) {
		t.Errorf("unexpected wick top %f", c.Wick.Y1)
	}
	if !approx(c.Wick.X1, 200) {
		t.Errorf("unexpected x %f", c.Wick.X1)
	}
	if r.Config() != cfg {
		t.Errorf("renderer should keep its config")
	}
}

func TestNewRenderer_RejectsInvalidCanvas(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"NaN width", func(c *Config) { c.Width = math.NaN() }},
		{"negative padding", func(c *Config) { c.Padding = -2 }},
		{"padding eats canvas", func(c *Config) { c.Padding = 75 }},
		{"zero body cap", func(c *Config) { c.MaxBodyWidth = 0 }},
		{"zero min height", func(c *Config) { c.MinBodyHeight = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewRenderer(cfg); !apperrors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func BenchmarkRender(b *testing.B) {
	candles := make([]models.Candle, 64)
	for i := range candles {
		f := float64(i)
		candles[i] = models.Candle{Open: f, High: f + 5, Low: f - 5, Close: f + 1}
	}
	r := NewDefaultRenderer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := r.Render(candles); err != nil {
			b.Fatal(err)
		}
	}
}
