package engine

import (
	"fmt"
	"strings"

	"github.com/tatianab/bronze/internal/models"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts easy, normal or hard in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Normal, Hard:
		return d, nil
	case "":
		return Normal, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
}

// StartingOverrides replaces preset starting values. Nil fields and a zero
// MaxTurns keep the preset.
type StartingOverrides struct {
	Resources *models.Resources
	Metrics   *models.Metrics
	MaxTurns  int
}

type GameConfig struct {
	Difficulty Difficulty
	Overrides  *StartingOverrides
}

type preset struct {
	maxTurns  int
	stability int
	collapse  int
}

var presets = map[Difficulty]preset{
	Easy:   {maxTurns: 30, stability: 70, collapse: 50},
	Normal: {maxTurns: models.DefaultMaxTurns, stability: 60, collapse: 50},
	Hard:   {maxTurns: 16, stability: 60, collapse: 50},
}

// NewGame returns the starting ledger for cfg.
func (e *Engine) NewGame(cfg GameConfig) (*models.Ledger, error) {
	d := cfg.Difficulty
	if d == "" {
		d = Normal
	}
	p, ok := presets[d]
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", d)
	}

	l := &models.Ledger{
		ID:         e.newID(),
		Difficulty: string(d),
		Resources:  models.Resources{Grain: 50, Timber: 20, Bronze: 10},
		Metrics: models.Metrics{
			Military:  20,
			Stability: p.stability,
			Prestige:  30,
			Collapse:  p.collapse,
		},
		Turn:        1,
		MaxTurns:    p.maxTurns,
		CurrentTurn: models.TurnSummary{Turn: 1},
	}
	if o := cfg.Overrides; o != nil {
		if o.Resources != nil {
			l.Resources = *o.Resources
		}
		if o.Metrics != nil {
			l.Metrics = *o.Metrics
		}
		if o.MaxTurns > 0 {
			l.MaxTurns = o.MaxTurns
		}
		l.Clamp()
	}

	l.AddLog(models.SeverityInfo, fmt.Sprintf("1177 BC. The great palaces still stand. Hold your realm together for %d turns.", l.MaxTurns))
	e.logger.Debug("new game", "id", l.ID, "difficulty", d, "max_turns", l.MaxTurns)
	return l, nil
}
