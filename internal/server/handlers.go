package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"candle-analyzer/internal/catalog"
	"candle-analyzer/internal/chart"
	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/explain"
	"candle-analyzer/internal/logging"
	"candle-analyzer/internal/models"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrPatternNotFound), apperrors.Is(err, apperrors.ErrCurrencyNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrSuperseded):
		return http.StatusConflict
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case apperrors.Is(err, apperrors.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if apperrors.Is(err, apperrors.ErrService) {
		msg = explain.UserMessage
	}
	if status >= http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	errorResponse(c, status, msg)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"patterns": catalog.Len(),
		"explain":  s.deps.Session != nil,
	})
}

type patternView struct {
	models.Pattern
	Favorites []string `json:"favorites"`
}

func (s *Server) view(p models.Pattern) patternView {
	v := patternView{Pattern: p, Favorites: []string{}}
	if s.deps.Favorites == nil {
		return v
	}
	for _, g := range s.deps.Favorites.Grouped() {
		if g.Pattern == p.Name {
			v.Favorites = g.Currencies
		}
	}
	return v
}

func (s *Server) handleListPatterns(c *gin.Context) {
	f := catalog.Filter{
		Type:  models.PatternType(c.Query("type")),
		Trend: models.Trend(c.Query("trend")),
		Query: c.Query("q"),
	}

	patterns := catalog.Find(f)
	views := make([]patternView, 0, len(patterns))
	for _, p := range patterns {
		views = append(views, s.view(p))
	}
	successResponse(c, views)
}

func (s *Server) handleGetPattern(c *gin.Context) {
	p, err := catalog.Get(c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	successResponse(c, s.view(p))
}

// rendererFor applies optional width/height/padding query overrides.
func (s *Server) rendererFor(c *gin.Context) (*chart.Renderer, error) {
	cfg := s.deps.Renderer.Config()
	overridden := false
	for name, dst := range map[string]*float64{
		"width":   &cfg.Width,
		"height":  &cfg.Height,
		"padding": &cfg.Padding,
	} {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperrors.NewValidationError(name, raw, "must be a number")
		}
		*dst = v
		overridden = true
	}
	if !overridden {
		return s.deps.Renderer, nil
	}
	return chart.NewRenderer(cfg)
}

func (s *Server) render(c *gin.Context) (*chart.Geometry, bool) {
	p, err := catalog.Get(c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	r, err := s.rendererFor(c)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	g, err := r.Render(p.Candles)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return g, true
}

func (s *Server) handleGeometry(c *gin.Context) {
	if g, ok := s.render(c); ok {
		successResponse(c, g)
	}
}

func (s *Server) handleSVG(c *gin.Context) {
	if g, ok := s.render(c); ok {
		c.Data(http.StatusOK, "image/svg+xml", []byte(chart.SVG(g)))
	}
}

func (s *Server) handleCurrencies(c *gin.Context) {
	successResponse(c, gin.H{
		"default":    s.config.DefaultCurrency,
		"currencies": catalog.Currencies(),
	})
}

func (s *Server) handleListFavorites(c *gin.Context) {
	if s.deps.Favorites == nil {
		successResponse(c, []models.FavoriteGroup{})
		return
	}

	if currency := c.Query("currency"); currency != "" {
		cur, err := catalog.LookupCurrency(currency)
		if err != nil {
			s.fail(c, err)
			return
		}
		names := s.deps.Favorites.ForCurrency(cur.Value)
		if names == nil {
			names = []string{}
		}
		successResponse(c, gin.H{"currency": cur.Value, "patterns": names})
		return
	}

	groups := s.deps.Favorites.Grouped()
	if groups == nil {
		groups = []models.FavoriteGroup{}
	}
	successResponse(c, groups)
}

type toggleRequest struct {
	Pattern  string `json:"pattern" binding:"required"`
	Currency string `json:"currency"`
}

func (s *Server) handleToggleFavorite(c *gin.Context) {
	if s.deps.Favorites == nil {
		errorResponse(c, http.StatusServiceUnavailable, "favorites are not available")
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Currency == "" {
		req.Currency = s.config.DefaultCurrency
	}

	p, err := catalog.Get(req.Pattern)
	if err != nil {
		s.fail(c, err)
		return
	}
	cur, err := catalog.LookupCurrency(req.Currency)
	if err != nil {
		s.fail(c, err)
		return
	}

	added, err := s.deps.Favorites.Toggle(c.Request.Context(), p.Name, cur.Value)
	if err != nil {
		s.fail(c, err)
		return
	}
	logging.LogFavorite(logging.FromContext(c.Request.Context()), p.Name, cur.Value, added)

	successResponse(c, gin.H{
		"pattern":  p.Name,
		"currency": cur.Value,
		"favorite": added,
	})
}

func (s *Server) handleExplain(c *gin.Context) {
	if s.deps.Session == nil {
		errorResponse(c, http.StatusServiceUnavailable, "explanations require an API key")
		return
	}

	p, err := catalog.Get(c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}

	// The fetch outlives the request so /api/selection can report it.
	ticket := s.deps.Session.Select(context.Background(), p)
	html, err := s.deps.Session.Wait(c.Request.Context(), ticket)
	if err != nil {
		s.fail(c, err)
		return
	}

	successResponse(c, gin.H{
		"pattern": p.Name,
		"ticket":  ticket.ID,
		"html":    html,
	})
}

func (s *Server) handleSelection(c *gin.Context) {
	if s.deps.Session == nil {
		successResponse(c, explain.State{})
		return
	}
	successResponse(c, s.deps.Session.State())
}

func (s *Server) handleChart(c *gin.Context) {
	if s.deps.Embedder == nil {
		errorResponse(c, http.StatusServiceUnavailable, "chart is not available")
		return
	}

	currency := c.DefaultQuery("currency", s.config.DefaultCurrency)
	inst, err := s.deps.Embedder.Mount(catalog.SymbolFor(currency))
	if err != nil {
		s.fail(c, err)
		return
	}
	html, err := inst.HTML()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
