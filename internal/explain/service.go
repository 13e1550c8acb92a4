package explain

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/logging"
	"candle-analyzer/internal/models"
	"candle-analyzer/internal/performance"
)

// UserMessage is shown when an explanation cannot be produced.
const UserMessage = "The AI model could not generate an explanation. Please try again later."

// Explainer produces an HTML explanation for a pattern.
type Explainer interface {
	Explain(ctx context.Context, p models.Pattern) (string, error)
}

// ServiceConfig holds explanation service configuration.
type ServiceConfig struct {
	Timeout           time.Duration // per request; 0 disables
	RequestsPerMinute int           // 0 disables pacing
}

// Service turns patterns into HTML explanations through an LLMClient.
type Service struct {
	client  LLMClient
	config  ServiceConfig
	limiter *performance.RateLimiter
	logger  zerolog.Logger
}

// NewService creates an explanation service.
func NewService(client LLMClient, cfg ServiceConfig, logger zerolog.Logger) *Service {
	s := &Service{
		client: client,
		config: cfg,
		logger: logging.WithOperation(logger, "explain"),
	}
	if cfg.RequestsPerMinute > 0 {
		s.limiter = performance.PerMinute(cfg.RequestsPerMinute)
	}
	return s
}

// Markdown returns the raw Markdown explanation.
func (s *Service) Markdown(ctx context.Context, p models.Pattern) (string, error) {
	if s.client == nil {
		return "", apperrors.NewServiceError(p.Name, "no API key configured", nil)
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return "", apperrors.NewServiceError(p.Name, "too many requests", apperrors.ErrRateLimited)
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.client.Complete(ctx, BuildPrompt(p.Name, p.Type, p.Trend))
	logging.LogAPICall(logging.WithPattern(s.logger, p.Name), "POST", "chat/completions", time.Since(start), err)
	if err != nil {
		return "", apperrors.NewServiceError(p.Name, "request failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewServiceError(p.Name, "received an empty response", nil)
	}
	return text, nil
}

// Explain returns the explanation rendered as HTML.
func (s *Service) Explain(ctx context.Context, p models.Pattern) (string, error) {
	text, err := s.Markdown(ctx, p)
	if err != nil {
		return "", err
	}
	html, err := ToHTML(text)
	if err != nil {
		return "", apperrors.NewServiceError(p.Name, "markdown conversion failed", err)
	}
	return html, nil
}
