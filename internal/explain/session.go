package explain

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/logging"
	"candle-analyzer/internal/models"
)

// State is a snapshot of the current selection and its explanation.
type State struct {
	Selection  string `json:"selection"`
	Generation uint64 `json:"generation"`
	Loading    bool   `json:"loading"`
	HTML       string `json:"html,omitempty"`
	Err        string `json:"error,omitempty"`
}

// Ticket identifies one explanation fetch.
type Ticket struct {
	ID         string `json:"id"`
	Pattern    string `json:"pattern"`
	Generation uint64 `json:"generation"`

	task *task
}

type task struct {
	done chan struct{}
	html string
	err  error
}

// Session tracks the selected pattern. Selecting a pattern starts a fetch
// and cancels the previous one; results of superseded fetches are dropped.
type Session struct {
	explainer Explainer
	logger    zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	current Ticket
	cancel  context.CancelFunc
	state   State
}

// NewSession creates a session backed by explainer.
func NewSession(explainer Explainer, logger zerolog.Logger) *Session {
	return &Session{
		explainer: explainer,
		logger:    logging.WithOperation(logger, "session"),
	}
}

// Select makes p the current selection and starts fetching its explanation.
// Selecting the pattern that is already loading returns the running ticket.
func (s *Session) Select(ctx context.Context, p models.Pattern) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Loading && s.state.Selection == p.Name {
		return s.current
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.gen++
	fetchCtx, cancel := context.WithCancel(ctx)
	t := Ticket{
		ID:         uuid.NewString(),
		Pattern:    p.Name,
		Generation: s.gen,
		task:       &task{done: make(chan struct{})},
	}
	s.current = t
	s.cancel = cancel
	s.state = State{Selection: p.Name, Generation: s.gen, Loading: true}

	s.logger.Debug().
		Str("pattern", p.Name).
		Str("ticket", t.ID).
		Uint64("generation", t.Generation).
		Msg("Explanation requested")

	go s.run(fetchCtx, cancel, t, p)
	return t
}

func (s *Session) run(ctx context.Context, cancel context.CancelFunc, t Ticket, p models.Pattern) {
	defer cancel()

	html, err := s.explainer.Explain(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()

	t.task.html, t.task.err = html, err
	close(t.task.done)

	if t.Generation != s.gen {
		s.logger.Debug().
			Str("pattern", p.Name).
			Str("ticket", t.ID).
			Msg("Discarding superseded explanation")
		return
	}

	s.cancel = nil
	s.state.Loading = false
	if err != nil {
		s.logger.Warn().Err(err).Str("pattern", p.Name).Msg("Explanation failed")
		s.state.Err = UserMessage
		return
	}
	s.state.HTML = html
}

// Wait blocks until the ticket's fetch finishes. It returns ErrSuperseded if
// another selection was made in the meantime.
func (s *Session) Wait(ctx context.Context, t Ticket) (string, error) {
	if t.task == nil {
		return "", apperrors.NewValidationError("ticket", t.ID, "unknown ticket")
	}

	select {
	case <-t.task.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.gen {
		return "", apperrors.Wrapf(apperrors.ErrSuperseded, "explanation for %s", t.Pattern)
	}
	return t.task.html, t.task.err
}

// State returns a snapshot of the current selection.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Clear drops the selection and cancels any running fetch.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.current = Ticket{}
	s.state = State{Generation: s.gen}
}
