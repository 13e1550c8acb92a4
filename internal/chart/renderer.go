// Package chart converts OHLC candles into scaled 2D drawing primitives.
package chart

import (
	"math"

	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/models"
)

// Config holds the logical canvas and scaling parameters.
type Config struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Padding       float64 `json:"padding"`         // reserved above and below the vertical scale
	MaxBodyWidth  float64 `json:"max_body_width"`  // cap for sparse charts
	Headroom      float64 `json:"headroom"`        // fraction of the price range added above and below
	MinBodyHeight float64 `json:"min_body_height"` // substituted for flat bodies
}

// DefaultConfig returns the default 200x150 canvas with padding 10.
func DefaultConfig() Config {
	return Config{
		Width:         200,
		Height:        150,
		Padding:       10,
		MaxBodyWidth:  40,
		Headroom:      0.1,
		MinBodyHeight: 1,
	}
}

// Validate checks that the canvas leaves room to draw.
func (c Config) Validate() error {
	switch {
	case !(c.Width > 0) || math.IsInf(c.Width, 0):
		return apperrors.NewValidationError("width", c.Width, "must be a positive finite number")
	case !(c.Height > 0) || math.IsInf(c.Height, 0):
		return apperrors.NewValidationError("height", c.Height, "must be a positive finite number")
	case !(c.Padding >= 0):
		return apperrors.NewValidationError("padding", c.Padding, "must not be negative")
	case c.Height-2*c.Padding <= 0:
		return apperrors.NewValidationError("padding", c.Padding, "leaves no vertical drawing space")
	case !(c.MaxBodyWidth > 0):
		return apperrors.NewValidationError("max_body_width", c.MaxBodyWidth, "must be positive")
	case !(c.Headroom >= 0):
		return apperrors.NewValidationError("headroom", c.Headroom, "must not be negative")
	case !(c.MinBodyHeight > 0):
		return apperrors.NewValidationError("min_body_height", c.MinBodyHeight, "must be positive")
	}
	return nil
}

// Direction is the up/down classification of a rendered candle.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Line is a segment in viewport coordinates.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Rect is an axis-aligned rectangle in viewport coordinates. Y grows downward.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CandleGeometry is the drawable form of one candle.
type CandleGeometry struct {
	Index     int       `json:"index"`
	Wick      Line      `json:"wick"`
	Body      Rect      `json:"body"`
	Direction Direction `json:"direction"`
}

// Geometry is the output of a render pass.
type Geometry struct {
	Width   float64          `json:"width"`
	Height  float64          `json:"height"`
	Candles []CandleGeometry `json:"candles"`
}

// Renderer maps candle sequences into geometry for a fixed canvas.
// A Renderer holds no mutable state and is safe for concurrent use.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer for the given canvas.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "chart config")
	}
	return &Renderer{cfg: cfg}, nil
}

// NewDefaultRenderer creates a renderer for the default canvas.
func NewDefaultRenderer() *Renderer {
	return &Renderer{cfg: DefaultConfig()}
}

// Config returns the renderer's canvas configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// scale holds the vertical mapping derived from one candle set.
type scale struct {
	base   float64 // minVal - yBuffer
	span   float64 // valRange + 2*yBuffer
	bottom float64 // H - P
	extent float64 // H - 2P
}

func (s scale) y(v float64) float64 {
	return s.bottom - ((v-s.base)/s.span)*s.extent
}

// Render converts candles into one wick and one body per candle, in input
// order. An empty sequence is rejected with ErrInvalidInput.
func (r *Renderer) Render(candles []models.Candle) (*Geometry, error) {
	n := len(candles)
	if n == 0 {
		return nil, apperrors.NewValidationError("candles", n, "at least one candle required")
	}

	// Highs and lows are pooled so an inverted candle cannot flip the scale.
	minVal, maxVal := candles[0].High, candles[0].High
	for _, c := range candles {
		minVal = math.Min(minVal, math.Min(c.High, c.Low))
		maxVal = math.Max(maxVal, math.Max(c.High, c.Low))
	}

	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1
	}
	yBuffer := valRange * r.cfg.Headroom

	s := scale{
		base:   minVal - yBuffer,
		span:   valRange + 2*yBuffer,
		bottom: r.cfg.Height - r.cfg.Padding,
		extent: r.cfg.Height - 2*r.cfg.Padding,
	}

	spacing := r.cfg.Width / float64(n+1)
	bodyWidth := math.Min(spacing/1.5, r.cfg.MaxBodyWidth)

	out := make([]CandleGeometry, n)
	for i, c := range candles {
		x := spacing * float64(i+1)

		dir := Down
		if c.IsBullish() {
			dir = Up
		}

		top := s.y(math.Max(c.Open, c.Close))
		bodyHeight := s.y(math.Min(c.Open, c.Close)) - top
		if !(bodyHeight > 0) {
			bodyHeight = r.cfg.MinBodyHeight
		}

		out[i] = CandleGeometry{
			Index:     i,
			Wick:      Line{X1: x, Y1: s.y(c.High), X2: x, Y2: s.y(c.Low)},
			Body:      Rect{X: x - bodyWidth/2, Y: top, Width: bodyWidth, Height: bodyHeight},
			Direction: dir,
		}
	}

	return &Geometry{
		Width:   r.cfg.Width,
		Height:  r.cfg.Height,
		Candles: out,
	}, nil
}

// Render renders candles on the default canvas.
func Render(candles []models.Candle) (*Geometry, error) {
	return NewDefaultRenderer().Render(candles)
}
