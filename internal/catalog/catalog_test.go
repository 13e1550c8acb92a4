package catalog

import (
	"testing"

	"candle-analyzer/internal/chart"
	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/models"
)

func TestAllPatternsRender(t *testing.T) {
	all := All()
	if len(all) != 11 || Len() != 11 {
		t.Fatalf("expected 11 patterns, got %d", len(all))
	}

	seen := make(map[string]bool)
	for _, p := range all {
		if seen[p.Name] {
			t.Errorf("duplicate pattern %s", p.Name)
		}
		seen[p.Name] = true

		if !p.Type.Valid() || !p.Trend.Valid() {
			t.Errorf("%s: invalid classification %s/%s", p.Name, p.Type, p.Trend)
		}
		if len(p.Candles) == 0 {
			t.Errorf("%s: no candles", p.Name)
			continue
		}
		g, err := chart.Render(p.Candles)
		if err != nil {
			t.Errorf("%s: render failed: %v", p.Name, err)
			continue
		}
		if len(g.Candles) != len(p.Candles) {
			t.Errorf("%s: expected %d candles rendered, got %d", p.Name, len(p.Candles), len(g.Candles))
		}
	}
}

func TestAllReturnsCopies(t *testing.T) {
	first := All()
	first[0].Candles[0].Open = -1
	first[0].Name = "mutated"

	again := All()
	if again[0].Name != "Hammer" || again[0].Candles[0].Open != 70 {
		t.Errorf("catalog was mutated through a returned copy: %+v", again[0])
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Hammer", "Hammer", false},
		{"  morning star ", "Morning Star", false},
		{"DOJI", "Doji", false},
		{"Abandoned Baby", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Get(tt.input)
			if tt.wantErr {
				if !apperrors.Is(err, apperrors.ErrPatternNotFound) {
					t.Errorf("expected ErrPatternNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tt.want {
				t.Errorf("expected %s, got %s", tt.want, p.Name)
			}
		})
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"no filter", Filter{}, 11},
		{"bullish", Filter{Type: models.Bullish}, 5},
		{"bearish lowercase", Filter{Type: "bearish"}, 5},
		{"neutral indecision", Filter{Type: models.Neutral, Trend: models.Indecision}, 1},
		{"continuation", Filter{Trend: models.Continuation}, 0},
		{"query on name", Filter{Query: "star"}, 3},
		{"query on description", Filter{Query: "upside-down"}, 1},
		{"combined", Filter{Type: models.Bearish, Query: "engulf"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Find(tt.filter); len(got) != tt.want {
				t.Errorf("expected %d patterns, got %d", tt.want, len(got))
			}
		})
	}
}

func TestCurrencies(t *testing.T) {
	if len(Currencies()) != 3 {
		t.Fatalf("expected 3 currencies")
	}

	tests := []struct {
		value  string
		symbol string
	}{
		{"EUR/USD", "FX:EURUSD"},
		{"gbp/usd", "FX:GBPUSD"},
		{"GOLD", "TVC:GOLD"},
		{"TVC:GOLD", "TVC:GOLD"},
		{"JPY/USD", DefaultSymbol},
	}
	for _, tt := range tests {
		if got := SymbolFor(tt.value); got != tt.symbol {
			t.Errorf("SymbolFor(%q): expected %s, got %s", tt.value, tt.symbol, got)
		}
	}

	if _, err := LookupCurrency("XAU"); !apperrors.Is(err, apperrors.ErrCurrencyNotFound) {
		t.Errorf("expected ErrCurrencyNotFound, got %v", err)
	}
	if cur, _ := LookupCurrency(DefaultCurrency); cur.Symbol != DefaultSymbol {
		t.Errorf("default currency should chart %s", DefaultSymbol)
	}
}
