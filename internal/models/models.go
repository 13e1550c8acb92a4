// Package models provides domain models for the candlestick pattern analyzer.
package models

// PatternType represents the directional implication of a pattern.
type PatternType string

const (
	Bullish PatternType = "Bullish"
	Bearish PatternType = "Bearish"
	Neutral PatternType = "Neutral"
)

// Valid reports whether t is a known pattern type.
func (t PatternType) Valid() bool {
	switch t {
	case Bullish, Bearish, Neutral:
		return true
	}
	return false
}

// Trend represents the trend behavior a pattern signals.
type Trend string

const (
	Reversal     Trend = "Reversal"
	Continuation Trend = "Continuation"
	Indecision   Trend = "Indecision"
)

// Valid reports whether t is a known trend.
func (t Trend) Valid() bool {
	switch t {
	case Reversal, Continuation, Indecision:
		return true
	}
	return false
}

// Candle represents one OHLC sample. Values are in price units and are not
// required to satisfy low <= open,close <= high.
type Candle struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// IsBullish returns true when the candle closed strictly above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// Pattern is a named, pre-authored sequence of candles.
type Pattern struct {
	Name        string      `json:"name"`
	Type        PatternType `json:"type"`
	Trend       Trend       `json:"trend"`
	Description string      `json:"description"`
	Candles     []Candle    `json:"candles"`
}

// Favorite marks a pattern as favorite for a currency.
type Favorite struct {
	Pattern  string `json:"pattern"`
	Currency string `json:"currency"`
}

// FavoriteGroup is a favorite pattern together with every currency it is
// favorited for.
type FavoriteGroup struct {
	Pattern    string   `json:"pattern"`
	Currencies []string `json:"currencies"`
}

// Currency is a selectable market for the live chart.
type Currency struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Symbol string `json:"symbol"` // TradingView symbol, e.g. FX:EURUSD
}
