package engine

import "github.com/tatianab/bronze/internal/models"

// Thresholds for the vacuum victory at the turn limit.
const (
	VacuumMinCollapse = 80
	VacuumMinMilitary = 50
)

// CheckEndCondition returns the outcome if the game has ended, or nil.
// Defeats take precedence over victories.
func CheckEndCondition(l *models.Ledger) *models.Outcome {
	m := l.Metrics
	switch {
	case m.Stability <= 0:
		return &models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonStability}
	case m.Collapse >= 100:
		return &models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonCollapse}
	case m.Military <= 0:
		return &models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonMilitary}
	case m.Collapse <= 0:
		return &models.Outcome{Type: models.OutcomePreservation}
	case l.Turn > l.MaxTurns:
		if m.Collapse >= VacuumMinCollapse && m.Military >= VacuumMinMilitary {
			return &models.Outcome{Type: models.OutcomeVacuum}
		}
		return &models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonTime}
	}
	return nil
}

// Describe returns a one-line player-facing explanation of o.
func Describe(o models.Outcome) string {
	switch o.Type {
	case models.OutcomePreservation:
		return "Victory: the collapse is averted and your civilization endures."
	case models.OutcomeVacuum:
		return "Victory: the old world burned, and your armies stand ready to fill the vacuum."
	}
	switch o.Reason {
	case models.ReasonStability:
		return "Defeat: your people rose against you and the realm fell into chaos."
	case models.ReasonCollapse:
		return "Defeat: the Bronze Age collapse swallowed your civilization."
	case models.ReasonMilitary:
		return "Defeat: with no army left, raiders overran the realm."
	case models.ReasonTime:
		return "Defeat: time ran out before the realm could be secured."
	}
	return "The game has ended."
}
