package engine

import (
	"fmt"

	"github.com/tatianab/bronze/internal/models"
)

// Passive drift applied at every turn closure. Stability drift is subject to
// Imperial Bureaucracy like any other stability loss.
const (
	CollapseDrift  = 3
	StabilityDrift = -2
)

func endTurnBlocked(l *models.Ledger) string {
	switch {
	case CheckEndCondition(l) != nil:
		return "The game is over. Start a new game."
	case l.PendingChoice != nil:
		return "Resolve the pending decision first: " + l.PendingChoice.Description
	case !l.FreeActionUsed && !l.PaidActionUsed:
		return "Cannot end turn: take your free action and a paid action first."
	case !l.FreeActionUsed:
		return "Cannot end turn: you haven't used your free action (harvest)."
	case !l.PaidActionUsed:
		return "Cannot end turn: you haven't taken a paid action."
	}
	return ""
}

// EndTurn closes the current turn: income, one event draw, drift, then the
// turn counter advances and the action slots reset.
func (e *Engine) EndTurn(l *models.Ledger) Result {
	if msg := endTurnBlocked(l); msg != "" {
		return e.fail(l, "end_turn", models.SeverityDanger, msg)
	}

	for _, a := range catalog {
		if a.Owned(l) && !a.Income.IsZero() {
			_, diff := e.apply(l, a.Income)
			l.CurrentTurn.Income = append(l.CurrentTurn.Income, a.Unlock+": "+diff)
		}
	}

	e.rollEvent(l)

	applied, _ := e.apply(l, models.Delta{Collapse: CollapseDrift})
	l.CurrentTurn.Drift = append(l.CurrentTurn.Drift, fmt.Sprintf("Collapse: %+d", applied.Collapse))
	applied, _ = e.apply(l, models.Delta{Stability: StabilityDrift})
	l.CurrentTurn.Drift = append(l.CurrentTurn.Drift, fmt.Sprintf("Stability: %+d", applied.Stability))

	l.Clamp()
	closed := l.Turn
	l.Turn++
	l.FreeActionUsed = false
	l.PaidActionUsed = false
	l.History = append(l.History, l.CurrentTurn)
	l.CurrentTurn = models.TurnSummary{Turn: l.Turn}

	msg := fmt.Sprintf("Turn %d complete. Turn %d of %d begins.", closed, l.Turn, l.MaxTurns)
	l.AddLog(models.SeverityInfo, msg)
	e.logger.Debug("turn closed", "turn", closed, "collapse", l.Metrics.Collapse, "stability", l.Metrics.Stability)
	return Result{Success: true, Summary: msg, Ledger: l}
}
