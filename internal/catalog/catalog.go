// Package catalog holds the static, read-only pattern catalog and the
// selectable currency markets.
package catalog

import (
	"strings"

	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/models"
)

var patterns = []models.Pattern{
	{
		Name:        "Hammer",
		Type:        models.Bullish,
		Trend:       models.Reversal,
		Description: "A bullish reversal pattern that forms during a downtrend. It is named because the market is hammering out a bottom.",
		Candles:     []models.Candle{{Open: 70, High: 72, Low: 20, Close: 68}},
	},
	{
		Name:        "Inverted Hammer",
		Type:        models.Bullish,
		Trend:       models.Reversal,
		Description: "A bullish reversal pattern. It looks like an upside-down hammer, suggesting potential buying pressure.",
		Candles:     []models.Candle{{Open: 30, High: 80, Low: 28, Close: 32}},
	},
	{
		Name:        "Bullish Engulfing",
		Type:        models.Bullish,
		Trend:       models.Reversal,
		Description: "A two-candle reversal pattern where a large green candle engulfs a smaller red candle, signaling a potential uptrend.",
		Candles: []models.Candle{
			{Open: 60, High: 62, Low: 50, Close: 52},
			{Open: 48, High: 80, Low: 46, Close: 78},
		},
	},
	{
		Name:        "Morning Star",
		Type:        models.Bullish,
		Trend:       models.Reversal,
		Description: "A three-candle bullish reversal pattern consisting of a large red candle, a small-bodied candle, and a large green candle.",
		Candles: []models.Candle{
			{Open: 80, High: 82, Low: 30, Close: 32},
			{Open: 22, High: 28, Low: 18, Close: 24},
			{Open: 35, High: 90, Low: 33, Close: 88},
		},
	},
	{
		Name:        "Three White Soldiers",
		Type:        models.Bullish,
		Trend:       models.Reversal,
		Description: "A bullish reversal pattern consisting of three consecutive long-bodied green candles that open within the previous body and close higher.",
		Candles: []models.Candle{
			{Open: 30, High: 55, Low: 28, Close: 53},
			{Open: 53, High: 78, Low: 51, Close: 76},
			{Open: 76, High: 100, Low: 74, Close: 98},
		},
	},
	{
		Name:        "Hanging Man",
		Type:        models.Bearish,
		Trend:       models.Reversal,
		Description: "A bearish reversal pattern that can mark a top or resistance level. It looks like a hammer but forms during an uptrend.",
		Candles:     []models.Candle{{Open: 70, High: 72, Low: 20, Close: 68}},
	},
	{
		Name:        "Shooting Star",
		Type:        models.Bearish,
		Trend:       models.Reversal,
		Description: "A bearish reversal pattern with a small lower body, long upper wick, and little or no lower wick. It appears after an uptrend.",
		Candles:     []models.Candle{{Open: 72, High: 98, Low: 70, Close: 71}},
	},
	{
		Name:        "Bearish Engulfing",
		Type:        models.Bearish,
		Trend:       models.Reversal,
		Description: "A two-candle reversal pattern where a large red candle engulfs a smaller green candle, signaling a potential downtrend.",
		Candles: []models.Candle{
			{Open: 52, High: 62, Low: 50, Close: 60},
			{Open: 78, High: 80, Low: 46, Close: 48},
		},
	},
	{
		Name:        "Evening Star",
		Type:        models.Bearish,
		Trend:       models.Reversal,
		Description: "A three-candle bearish reversal pattern, the opposite of a Morning Star. It signals a potential top.",
		Candles: []models.Candle{
			{Open: 35, High: 90, Low: 33, Close: 88},
			{Open: 95, High: 99, Low: 92, Close: 94},
			{Open: 80, High: 82, Low: 30, Close: 32},
		},
	},
	{
		Name:        "Three Black Crows",
		Type:        models.Bearish,
		Trend:       models.Reversal,
		Description: "A bearish reversal pattern of three consecutive long red candles that have closed lower than the previous day.",
		Candles: []models.Candle{
			{Open: 98, High: 100, Low: 74, Close: 76},
			{Open: 76, High: 78, Low: 51, Close: 53},
			{Open: 53, High: 55, Low: 28, Close: 30},
		},
	},
	{
		Name:        "Doji",
		Type:        models.Neutral,
		Trend:       models.Indecision,
		Description: "A candle where the open and close are virtually equal. It signifies indecision in the market and can be a turning point.",
		Candles:     []models.Candle{{Open: 50, High: 70, Low: 30, Close: 50.5}},
	},
}

// All returns a copy of every pattern in catalog order.
func All() []models.Pattern {
	out := make([]models.Pattern, len(patterns))
	for i, p := range patterns {
		out[i] = clone(p)
	}
	return out
}

// Names returns pattern names in catalog order.
func Names() []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of patterns in the catalog.
func Len() int {
	return len(patterns)
}

// Get looks up a pattern by name, ignoring case and surrounding space.
func Get(name string) (models.Pattern, error) {
	key := strings.TrimSpace(name)
	for _, p := range patterns {
		if strings.EqualFold(p.Name, key) {
			return clone(p), nil
		}
	}
	return models.Pattern{}, apperrors.Wrapf(apperrors.ErrPatternNotFound, "%q", name)
}

// Filter selects patterns. Zero fields match everything.
type Filter struct {
	Type  models.PatternType
	Trend models.Trend
	Query string // case-insensitive substring of name or description
}

// Match reports whether p satisfies the filter.
func (f Filter) Match(p models.Pattern) bool {
	if f.Type != "" && !strings.EqualFold(string(f.Type), string(p.Type)) {
		return false
	}
	if f.Trend != "" && !strings.EqualFold(string(f.Trend), string(p.Trend)) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	}
	return true
}

// Find returns the patterns matching f in catalog order.
func Find(f Filter) []models.Pattern {
	var out []models.Pattern
	for _, p := range patterns {
		if f.Match(p) {
			out = append(out, clone(p))
		}
	}
	return out
}

func clone(p models.Pattern) models.Pattern {
	p.Candles = append([]models.Candle(nil), p.Candles...)
	return p
}
