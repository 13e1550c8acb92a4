package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"candle-analyzer/internal/catalog"
	"candle-analyzer/internal/chart"
	"candle-analyzer/internal/models"
)

const thumbnailWorkers = 4

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Forex Candlestick Pattern Analyzer</title>
<style>
body { background: #111827; color: #e5e7eb; font-family: sans-serif; margin: 2rem; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 1rem; }
.card { background: #1f2937; border-radius: 8px; padding: 0.75rem; cursor: pointer; }
.card svg { width: 100%; height: auto; }
.fav { float: right; background: none; border: none; color: #6b7280; font-size: 1.2rem; cursor: pointer; }
.fav.on { color: #facc15; }
.err { color: #ef4444; }
#explanation { margin-top: 1.5rem; }
.favorites { background: #1f2937; border-radius: 8px; padding: 0.75rem; margin: 1rem 0; }
.favorites li { list-style: none; margin: 0.25rem 0; }
.chip { display: inline-block; background: #374151; border-radius: 999px; padding: 0 0.6rem; margin-left: 0.3rem; color: #e5e7eb; text-decoration: none; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Forex Candlestick Pattern Analyzer</h1>
<form method="get">
<select name="currency" onchange="this.form.submit()">
{{range .Currencies}}<option value="{{.Value}}"{{if eq .Value $.Currency}} selected{{end}}>{{.Label}}</option>
{{end}}</select>
</form>
{{.Chart}}
<section class="favorites">
<h2>Favorites</h2>
{{if .Favorites}}<ul>
{{range .Favorites}}<li class="favorite-group"><strong>{{.Pattern}}</strong>{{range .Currencies}}<a class="chip" href="?currency={{.}}">{{.}}</a>{{end}}</li>
{{end}}</ul>{{else}}<p>No favorites yet. Click a star to add one.</p>{{end}}
</section>
<div class="grid">
{{range .Cards}}<div class="card" data-pattern="{{.Pattern.Name}}">
<button class="fav{{if .Favorite}} on{{end}}" data-pattern="{{.Pattern.Name}}" title="Favorite">&#9733;</button>
<h3>{{.Pattern.Name}}</h3>
<p>{{.Pattern.Type}} &middot; {{.Pattern.Trend}}</p>
{{if .Err}}<p class="err">{{.Err}}</p>{{else}}{{.SVG}}{{end}}
<p>{{.Pattern.Description}}</p>
</div>
{{end}}</div>
<div id="explanation"></div>
<script>
const currency = {{.Currency}};
document.querySelectorAll('.fav').forEach(b => b.addEventListener('click', async e => {
  e.stopPropagation();
  const r = await fetch('/api/favorites/toggle', {method: 'POST', headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({pattern: b.dataset.pattern, currency})});
  const j = await r.json();
  if (j.success) b.classList.toggle('on', j.data.favorite);
}));
document.querySelectorAll('.card').forEach(c => c.addEventListener('click', async () => {
  const out = document.getElementById('explanation');
  out.textContent = 'Loading...';
  const r = await fetch('/api/explain/' + encodeURIComponent(c.dataset.pattern));
  if (r.status === 409) return;
  const j = await r.json();
  if (j.success) out.innerHTML = j.data.html; else out.textContent = j.message;
}));
</script>
</body>
</html>
`))

type card struct {
	Pattern  models.Pattern
	SVG      template.HTML
	Err      string
	Favorite bool
}

func (s *Server) handleIndex(c *gin.Context) {
	cur, err := catalog.LookupCurrency(c.DefaultQuery("currency", s.config.DefaultCurrency))
	if err != nil {
		s.fail(c, err)
		return
	}

	patterns := catalog.All()
	thumbs := chart.RenderAll(c.Request.Context(), s.deps.Renderer, patterns, thumbnailWorkers)

	var groups []models.FavoriteGroup
	if s.deps.Favorites != nil {
		groups = s.deps.Favorites.Grouped()
	}

	cards := make([]card, len(patterns))
	for i, p := range patterns {
		cards[i] = card{Pattern: p}
		if thumbs[i].Err != nil {
			cards[i].Err = "Could not draw this pattern"
		} else {
			cards[i].SVG = template.HTML(thumbs[i].SVG)
		}
		if s.deps.Favorites != nil {
			cards[i].Favorite = s.deps.Favorites.IsFavorite(p.Name, cur.Value)
		}
	}

	var embed template.HTML
	if s.deps.Embedder != nil {
		if inst, err := s.deps.Embedder.Mount(cur.Symbol); err == nil {
			embed, _ = inst.HTML()
		}
	}

	var buf bytes.Buffer
	err = indexTemplate.Execute(&buf, gin.H{
		"Currency":   cur.Value,
		"Currencies": catalog.Currencies(),
		"Chart":      embed,
		"Cards":      cards,
		"Favorites":  groups,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
