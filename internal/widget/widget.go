// Package widget manages the embedded live market chart. At most one chart
// instance is mounted at a time and it always shows the selected symbol.
package widget

import (
	"bytes"
	"encoding/json"
	"html/template"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "candle-analyzer/internal/errors"
)

// ScriptURL is the embed script loaded by the host page.
const ScriptURL = "https://s3.tradingview.com/tv.js"

// DefaultContainerID is the DOM element the chart mounts into.
const DefaultContainerID = "tradingview_chart_container"

// Options is the widget configuration handed to the embed script.
type Options struct {
	Autosize          bool   `json:"autosize"`
	Symbol            string `json:"symbol"`
	Interval          string `json:"interval"`
	Timezone          string `json:"timezone"`
	Theme             string `json:"theme"`
	Style             string `json:"style"`
	Locale            string `json:"locale"`
	EnablePublishing  bool   `json:"enable_publishing"`
	HideSideToolbar   bool   `json:"hide_side_toolbar"`
	AllowSymbolChange bool   `json:"allow_symbol_change"`
	ContainerID       string `json:"container_id"`
}

// DefaultOptions returns a daily dark candlestick chart for symbol.
func DefaultOptions(symbol string) Options {
	return Options{
		Autosize:          true,
		Symbol:            symbol,
		Interval:          "D",
		Timezone:          "Etc/UTC",
		Theme:             "dark",
		Style:             "1",
		Locale:            "en",
		EnablePublishing:  false,
		HideSideToolbar:   false,
		AllowSymbolChange: true,
		ContainerID:       DefaultContainerID,
	}
}

// Instance is one mounted chart.
type Instance struct {
	ID      string
	Options Options

	disposed atomic.Bool
}

var instanceTemplate = template.Must(template.New("widget").Parse(
	`<div class="tradingview-widget-container" data-instance="{{.ID}}">` +
		`<div id="{{.Options.ContainerID}}"></div>` +
		`<script src="{{.Script}}"></script>` +
		`<script>new TradingView.widget({{.Config}});</script>` +
		`</div>`))

// HTML returns the markup that mounts the instance in a page.
func (i *Instance) HTML() (template.HTML, error) {
	cfg, err := json.Marshal(i.Options)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = instanceTemplate.Execute(&buf, struct {
		ID      string
		Options Options
		Script  string
		Config  template.JS
	}{i.ID, i.Options, ScriptURL, template.JS(cfg)})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Disposed reports whether the instance has been torn down.
func (i *Instance) Disposed() bool {
	return i.disposed.Load()
}

// Embedder owns the mount point and the instance currently in it.
type Embedder struct {
	mu       sync.Mutex
	base     Options
	current  *Instance
	mounts   int
	disposed int
	logger   zerolog.Logger
}

// NewEmbedder creates an embedder whose instances share base except for
// the symbol.
func NewEmbedder(base Options, logger zerolog.Logger) *Embedder {
	if base.ContainerID == "" {
		base.ContainerID = DefaultContainerID
	}
	return &Embedder{base: base, logger: logger}
}

// Mount shows symbol in the mount point. The previous instance is disposed
// first. Mounting the symbol already shown returns the current instance.
func (e *Embedder) Mount(symbol string) (*Instance, error) {
	if symbol == "" {
		return nil, apperrors.NewValidationError("symbol", symbol, "must not be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil && e.current.Options.Symbol == symbol {
		return e.current, nil
	}
	e.disposeLocked()

	opts := e.base
	opts.Symbol = symbol
	e.current = &Instance{ID: uuid.NewString(), Options: opts}
	e.mounts++

	e.logger.Debug().
		Str("symbol", symbol).
		Str("instance", e.current.ID).
		Msg("Chart mounted")

	return e.current, nil
}

// Current returns the mounted instance, or nil.
func (e *Embedder) Current() *Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Close disposes the mounted instance and clears the mount point.
func (e *Embedder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposeLocked()
}

// Stats returns how many instances were created and disposed.
func (e *Embedder) Stats() (mounted, disposed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mounts, e.disposed
}

func (e *Embedder) disposeLocked() {
	if e.current == nil {
		return
	}
	e.current.disposed.Store(true)
	e.disposed++
	e.logger.Debug().Str("instance", e.current.ID).Msg("Chart disposed")
	e.current = nil
}
