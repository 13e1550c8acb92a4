package chart

import (
	"context"
	"fmt"
	"sync"

	"candle-analyzer/internal/models"
	"candle-analyzer/internal/performance"
)

// Thumbnail is the render result for one pattern of a batch.
type Thumbnail struct {
	Pattern  string    `json:"pattern"`
	Geometry *Geometry `json:"geometry,omitempty"`
	SVG      string    `json:"svg,omitempty"`
	Err      error     `json:"-"`
}

// RenderAll renders every pattern on a worker pool. Results keep the input
// order and a failure in one pattern is recorded on its own Thumbnail only.
func RenderAll(ctx context.Context, r *Renderer, patterns []models.Pattern, workers int) []Thumbnail {
	out := make([]Thumbnail, len(patterns))
	if len(patterns) == 0 {
		return out
	}
	if workers <= 0 || workers > len(patterns) {
		workers = len(patterns)
	}

	pool := performance.NewWorkerPool(workers)
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	for i := range patterns {
		i := i
		out[i].Pattern = patterns[i].Name

		wg.Add(1)
		err := pool.SubmitWait(ctx, func() {
			defer wg.Done()
			out[i] = renderOne(r, patterns[i])
		})
		if err != nil {
			wg.Done()
			out[i].Err = err
		}
	}
	wg.Wait()

	return out
}

func renderOne(r *Renderer, p models.Pattern) (t Thumbnail) {
	t.Pattern = p.Name
	defer func() {
		if rec := recover(); rec != nil {
			t.Geometry, t.SVG = nil, ""
			t.Err = fmt.Errorf("render %s: panic: %v", p.Name, rec)
		}
	}()

	g, err := r.Render(p.Candles)
	if err != nil {
		t.Err = fmt.Errorf("render %s: %w", p.Name, err)
		return t
	}
	t.Geometry = g
	t.SVG = SVG(g)
	return t
}
