// Package server exposes the pattern library, favorites, explanations and
// live chart embed over a local HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"candle-analyzer/internal/chart"
	"candle-analyzer/internal/explain"
	"candle-analyzer/internal/logging"
	"candle-analyzer/internal/store"
	"candle-analyzer/internal/widget"
)

const requestIDHeader = "X-Request-ID"

// Config holds server configuration.
type Config struct {
	Addr            string
	AllowedOrigins  []string
	DefaultCurrency string
	ProductionMode  bool
}

// Deps are the application components the handlers operate on.
type Deps struct {
	Renderer  *chart.Renderer
	Favorites *store.Favorites
	Session   *explain.Session // nil disables explanations
	Embedder  *widget.Embedder
	Logger    zerolog.Logger
}

// Server represents the HTTP API server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     Config
	deps       Deps
	logger     zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config, deps Deps) *Server {
	if cfg.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	if deps.Renderer == nil {
		deps.Renderer = chart.NewDefaultRenderer()
	}

	router := gin.New()

	router.Use(requestLogger(deps.Logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", requestIDHeader}
	router.Use(cors.New(corsConfig))

	s := &Server{
		router: router,
		config: cfg,
		deps:   deps,
		logger: deps.Logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.GET("/patterns", s.handleListPatterns)
		api.GET("/patterns/:name", s.handleGetPattern)
		api.GET("/patterns/:name/geometry", s.handleGeometry)
		api.GET("/patterns/:name/svg", s.handleSVG)

		api.GET("/currencies", s.handleCurrencies)

		api.GET("/favorites", s.handleListFavorites)
		api.POST("/favorites/toggle", s.handleToggleFavorite)

		api.GET("/explain/:name", s.handleExplain)
		api.GET("/selection", s.handleSelection)

		api.GET("/chart", s.handleChart)
	}
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // explanations wait on the model
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", s.config.Addr).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")

	if s.deps.Session != nil {
		s.deps.Session.Clear()
	}
	if s.deps.Embedder != nil {
		s.deps.Embedder.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestLogger tags each request with an ID and stores the scoped logger
// in the request context for handlers.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		logger := logger.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))

		c.Next()

		event := logger.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

// errorResponse is a helper to send error responses
func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// successResponse is a helper to send success responses
func successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
