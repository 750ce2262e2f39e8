package engine

import (
	"testing"

	"github.com/tatianab/bronze/internal/models"
)

func ledgerWith(m models.Metrics, turn, maxTurns int) *models.Ledger {
	return &models.Ledger{Metrics: m, Turn: turn, MaxTurns: maxTurns}
}

func TestCheckEndCondition(t *testing.T) {
	tests := []struct {
		name string
		l    *models.Ledger
		want *models.Outcome
	}{
		{"continue", ledgerWith(models.Metrics{Military: 40, Stability: 50, Collapse: 50}, 10, 20), nil},
		{"collapse 99", ledgerWith(models.Metrics{Military: 20, Stability: 60, Collapse: 99}, 1, 20), nil},
		{"stability", ledgerWith(models.Metrics{Military: 20, Stability: 0, Collapse: 50}, 1, 20),
			&models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonStability}},
		{"collapse", ledgerWith(models.Metrics{Military: 20, Stability: 60, Collapse: 100}, 1, 20),
			&models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonCollapse}},
		{"military", ledgerWith(models.Metrics{Military: 0, Stability: 60, Collapse: 50}, 1, 20),
			&models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonMilitary}},
		{"preservation", ledgerWith(models.Metrics{Military: 20, Stability: 60, Collapse: 0}, 1, 20),
			&models.Outcome{Type: models.OutcomePreservation}},
		{"time", ledgerWith(models.Metrics{Military: 30, Stability: 60, Collapse: 50}, 21, 20),
			&models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonTime}},
		{"vacuum", ledgerWith(models.Metrics{Military: 55, Stability: 60, Collapse: 85}, 21, 20),
			&models.Outcome{Type: models.OutcomeVacuum}},

		{"stability beats preservation", ledgerWith(models.Metrics{Military: 20, Stability: 0, Collapse: 0}, 1, 20),
			&models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonStability}},
		{"collapse beats military", ledgerWith(models.Metrics{Military: 0, Stability: 60, Collapse: 100}, 1, 20),
			&models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonCollapse}},
		{"military beats preservation", ledgerWith(models.Metrics{Military: 0, Stability: 60, Collapse: 0}, 1, 20),
			&models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonMilitary}},
		{"preservation beats time", ledgerWith(models.Metrics{Military: 20, Stability: 60, Collapse: 0}, 25, 20),
			&models.Outcome{Type: models.OutcomePreservation}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckEndCondition(tt.l)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %+v, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("got %+v, want %+v", got, *tt.want)
			}
		})
	}
}

func TestVacuumNeedsEveryThreshold(t *testing.T) {
	base := models.Metrics{Military: VacuumMinMilitary, Stability: 60, Collapse: VacuumMinCollapse}
	if got := CheckEndCondition(ledgerWith(base, 21, 20)); got == nil || got.Type != models.OutcomeVacuum {
		t.Fatalf("at thresholds: %+v", got)
	}

	if got := CheckEndCondition(ledgerWith(base, 20, 20)); got != nil {
		t.Errorf("on the last turn: %+v, want nil", got)
	}
	lowCollapse := base
	lowCollapse.Collapse--
	lowMilitary := base
	lowMilitary.Military--
	for _, m := range []models.Metrics{lowCollapse, lowMilitary} {
		got := CheckEndCondition(ledgerWith(m, 21, 20))
		if got == nil || got.Type != models.OutcomeDefeat || got.Reason != models.ReasonTime {
			t.Errorf("metrics %+v: %+v, want time defeat", m, got)
		}
	}
}

func TestDescribeOutcome(t *testing.T) {
	if d := Describe(models.Outcome{Type: models.OutcomeVacuum}); d == "" || !(models.Outcome{Type: models.OutcomeVacuum}).Victory() {
		t.Errorf("vacuum: %q", d)
	}
	if (models.Outcome{Type: models.OutcomeDefeat, Reason: models.ReasonTime}).Victory() {
		t.Error("time defeat reported as victory")
	}
}
