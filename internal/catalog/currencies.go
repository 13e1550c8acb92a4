package catalog

import (
	"strings"

	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/models"
)

// DefaultCurrency is the market selected at startup.
const DefaultCurrency = "EUR/USD"

// DefaultSymbol is used when a currency has no known chart symbol.
const DefaultSymbol = "FX:EURUSD"

var currencies = []models.Currency{
	{Label: "EUR/USD", Value: "EUR/USD", Symbol: "FX:EURUSD"},
	{Label: "GBP/USD", Value: "GBP/USD", Symbol: "FX:GBPUSD"},
	{Label: "GOLD", Value: "GOLD", Symbol: "TVC:GOLD"},
}

// Currencies returns the selectable markets.
func Currencies() []models.Currency {
	return append([]models.Currency(nil), currencies...)
}

// LookupCurrency finds a currency by value or chart symbol, ignoring case.
func LookupCurrency(value string) (models.Currency, error) {
	key := strings.TrimSpace(value)
	for _, cur := range currencies {
		if strings.EqualFold(cur.Value, key) || strings.EqualFold(cur.Symbol, key) {
			return cur, nil
		}
	}
	return models.Currency{}, apperrors.Wrapf(apperrors.ErrCurrencyNotFound, "%q", value)
}

// SymbolFor returns the chart symbol of a currency, falling back to
// DefaultSymbol for unknown values.
func SymbolFor(value string) string {
	cur, err := LookupCurrency(value)
	if err != nil {
		return DefaultSymbol
	}
	return cur.Symbol
}
