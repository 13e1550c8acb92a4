package widget

import (
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	apperrors "candle-analyzer/internal/errors"
)

func TestEmbedder_SingleInstance(t *testing.T) {
	e := NewEmbedder(DefaultOptions(""), zerolog.Nop())

	first, err := e.Mount("FX:EURUSD")
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	same, _ := e.Mount("FX:EURUSD")
	if same != first {
		t.Error("mounting the same symbol should keep the instance")
	}

	second, _ := e.Mount("TVC:GOLD")
	if !first.Disposed() {
		t.Error("previous instance should be disposed before a new one mounts")
	}
	if second.Options.Symbol != "TVC:GOLD" || e.Current() != second {
		t.Errorf("expected GOLD mounted, got %+v", e.Current())
	}

	mounted, disposed := e.Stats()
	if mounted-disposed != 1 {
		t.Errorf("expected exactly one live instance, got %d mounted %d disposed", mounted, disposed)
	}

	e.Close()
	if e.Current() != nil || !second.Disposed() {
		t.Error("Close should dispose and clear the mount point")
	}
	e.Close()
}

func TestEmbedder_ConcurrentMount(t *testing.T) {
	e := NewEmbedder(DefaultOptions(""), zerolog.Nop())
	symbols := []string{"FX:EURUSD", "FX:GBPUSD", "TVC:GOLD"}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.Mount(symbols[i%len(symbols)])
		}(i)
	}
	wg.Wait()

	mounted, disposed := e.Stats()
	if mounted-disposed != 1 {
		t.Errorf("expected one live instance, got %d mounted %d disposed", mounted, disposed)
	}
}

func TestEmbedder_DisposedWhileReading(t *testing.T) {
	e := NewEmbedder(DefaultOptions(""), zerolog.Nop())
	first, err := e.Mount("FX:EURUSD")
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			first.Disposed()
		}
	}()
	go func() {
		defer wg.Done()
		e.Mount("TVC:GOLD")
	}()
	wg.Wait()

	if !first.Disposed() {
		t.Error("replaced instance should report disposed")
	}
}

func TestEmbedder_EmptySymbol(t *testing.T) {
	e := NewEmbedder(Options{}, zerolog.Nop())
	if _, err := e.Mount(""); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestInstance_HTML(t *testing.T) {
	e := NewEmbedder(DefaultOptions(""), zerolog.Nop())
	inst, _ := e.Mount("TVC:GOLD")

	html, err := inst.HTML()
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	out := string(html)
	for _, want := range []string{
		`id="tradingview_chart_container"`,
		ScriptURL,
		`"symbol":"TVC:GOLD"`,
		`"interval":"D"`,
		`"theme":"dark"`,
		`"allow_symbol_change":true`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}
