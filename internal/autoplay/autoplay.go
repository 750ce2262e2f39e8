// Package autoplay drives games without a human, for simulation and tests.
package autoplay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tatianab/bronze/internal/engine"
	"github.com/tatianab/bronze/internal/models"
)

type MoveKind int

const (
	MoveAction MoveKind = iota
	MoveChoose
	MoveEndTurn
)

// Move is one call into the engine.
type Move struct {
	Kind   MoveKind
	Action engine.ActionID
	Args   []string
	Branch string
}

func (m Move) String() string {
	switch m.Kind {
	case MoveAction:
		if len(m.Args) > 0 {
			return string(m.Action) + " " + strings.Join(m.Args, " ")
		}
		return string(m.Action)
	case MoveChoose:
		return "choose " + m.Branch
	default:
		return "end turn"
	}
}

// Policy picks the next move for a game that has not ended.
type Policy interface {
	Next(l *models.Ledger) Move
}

var ErrStepLimit = errors.New("autoplay: step limit reached")

// Apply performs m on l.
func Apply(eng *engine.Engine, l *models.Ledger, m Move) engine.Result {
	switch m.Kind {
	case MoveAction:
		return eng.PerformAction(l, m.Action, m.Args...)
	case MoveChoose:
		return eng.ResolvePendingChoice(l, m.Branch)
	default:
		return eng.EndTurn(l)
	}
}

// Play asks policy for moves until the game ends. A rejected move or more than
// maxSteps moves is an error, except a choice the engine dismissed as unknown.
func Play(eng *engine.Engine, l *models.Ledger, policy Policy, maxSteps int) (*models.Outcome, error) {
	for step := 0; ; step++ {
		if out := engine.CheckEndCondition(l); out != nil {
			return out, nil
		}
		if step >= maxSteps {
			return nil, ErrStepLimit
		}
		m := policy.Next(l)
		if res := Apply(eng, l, m); !res.Success {
			if m.Kind == MoveChoose && l.PendingChoice == nil {
				continue
			}
			return nil, fmt.Errorf("autoplay: %s rejected on turn %d: %s", m, l.Turn, res.Summary)
		}
	}
}
