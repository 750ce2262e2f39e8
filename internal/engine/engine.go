// Package engine implements the turn economy: actions, events, pending
// choices, turn closure and end-of-game evaluation. It performs no I/O and
// keeps no state between calls other than its random source.
package engine

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/tatianab/bronze/internal/models"
)

// Engine applies game rules to ledgers owned by the caller. An Engine is not
// safe for concurrent use; give each session its own.
type Engine struct {
	rng    Rand
	logger *slog.Logger
	newID  func() string
}

type Option func(*Engine)

// WithLogger sets the logger used for debug traces of state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l.With("component", "engine")
	}
}

// WithIDGenerator replaces the generator of new game ids.
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) {
		e.newID = f
	}
}

func New(rng Rand, opts ...Option) *Engine {
	e := &Engine{
		rng:    rng,
		logger: slog.New(slog.DiscardHandler),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewSeeded returns an Engine whose events are reproducible for seed.
func NewSeeded(seed int64, opts ...Option) *Engine {
	return New(NewSource(seed), opts...)
}

// Result reports the outcome of a single engine call.
type Result struct {
	Success bool
	// Summary is the applied effect on success, or the reason for failure.
	Summary string
	Ledger  *models.Ledger
}

func (e *Engine) fail(l *models.Ledger, op string, sev models.Severity, msg string) Result {
	l.AddLog(sev, msg)
	e.logger.Debug("rejected", "op", op, "turn", l.Turn, "reason", msg)
	return Result{Success: false, Summary: msg, Ledger: l}
}
