package engine

import (
	"fmt"
	"strings"

	"github.com/tatianab/bronze/internal/models"
)

type choiceBranch struct {
	Label    string
	Requires Requirement
	Effect   models.Delta
}

func (b choiceBranch) option() models.ChoiceOption {
	effect := FormatDelta(b.Effect)
	if req := b.Requires.String(); req != "" {
		effect += " (needs " + req + ")"
	}
	return models.ChoiceOption{Label: b.Label, Effect: effect}
}

type choiceTemplate struct {
	ID          string
	Description string
	A, B        choiceBranch
}

var choiceTemplates = []choiceTemplate{
	{
		ID:          "vassal_aid",
		Description: "A starving vassal city begs for grain.",
		A: choiceBranch{
			Label:    "Send grain",
			Requires: Requirement{Grain: 20},
			Effect:   models.Delta{Grain: -20, Stability: 5, Prestige: 5, Collapse: -2},
		},
		B: choiceBranch{
			Label:  "Refuse",
			Effect: models.Delta{Stability: -5, Prestige: -3, Collapse: 3},
		},
	},
	{
		ID:          "refugees",
		Description: "Refugees from the burned coast gather at the gates.",
		A: choiceBranch{
			Label:    "Shelter them",
			Requires: Requirement{Grain: 15},
			Effect:   models.Delta{Grain: -15, Timber: 10, Military: 5, Stability: -5},
		},
		B: choiceBranch{
			Label:  "Turn them away",
			Effect: models.Delta{Prestige: -5, Collapse: 2},
		},
	},
	{
		ID:          "sea_peoples_envoy",
		Description: "An envoy of the Sea Peoples demands bronze for safe passage.",
		A: choiceBranch{
			Label:    "Pay them off",
			Requires: Requirement{Bronze: 15},
			Effect:   models.Delta{Bronze: -15, Collapse: -4},
		},
		B: choiceBranch{
			Label:  "Refuse and fight",
			Effect: models.Delta{Military: -10, Prestige: 5, Collapse: 2},
		},
	},
	{
		ID:          "oracle",
		Description: "The oracle foretells ruin unless the gods are honoured.",
		A: choiceBranch{
			Label:    "Honour the oracle",
			Requires: Requirement{Prestige: 10},
			Effect:   models.Delta{Prestige: -10, Stability: 8},
		},
		B: choiceBranch{
			Label:  "Ignore the omen",
			Effect: models.Delta{Stability: -5, Collapse: 1},
		},
	},
}

// ChoiceIDs lists the ids of every decision an event can raise.
func ChoiceIDs() []string {
	ids := make([]string, len(choiceTemplates))
	for i, t := range choiceTemplates {
		ids[i] = t.ID
	}
	return ids
}

func lookupChoice(id string) (choiceTemplate, bool) {
	for _, t := range choiceTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return choiceTemplate{}, false
}

// NewPendingChoice builds the pending choice for template id.
func NewPendingChoice(id string) (*models.PendingChoice, bool) {
	t, ok := lookupChoice(id)
	if !ok {
		return nil, false
	}
	return &models.PendingChoice{
		ID:          t.ID,
		Description: t.Description,
		A:           t.A.option(),
		B:           t.B.option(),
	}, true
}

func (e *Engine) raiseChoice(l *models.Ledger) {
	t := choiceTemplates[e.rng.IntN(len(choiceTemplates))]
	l.PendingChoice, _ = NewPendingChoice(t.ID)
	l.CurrentTurn.Events = append(l.CurrentTurn.Events, "Decision: "+t.Description)
	l.AddLog(models.SeverityInfo, "DECISION: "+t.Description)
	e.logger.Debug("choice raised", "id", t.ID, "turn", l.Turn)
}

// ResolvePendingChoice applies branch "a" or "b" of the pending choice. If the
// branch's requirement is not met the choice stays pending.
func (e *Engine) ResolvePendingChoice(l *models.Ledger, branch string) Result {
	if CheckEndCondition(l) != nil {
		return e.fail(l, "choice", models.SeverityDanger, "The game is over. Start a new game.")
	}
	pc := l.PendingChoice
	if pc == nil {
		return e.fail(l, "choice", models.SeverityDanger, "There is no decision to make.")
	}
	t, ok := lookupChoice(pc.ID)
	if !ok {
		l.PendingChoice = nil
		return e.fail(l, "choice", models.SeverityWarning, fmt.Sprintf("Decision %q is no longer recognized and was dismissed.", pc.ID))
	}

	var b choiceBranch
	switch strings.ToLower(strings.TrimSpace(branch)) {
	case "a":
		b = t.A
	case "b":
		b = t.B
	default:
		return e.fail(l, "choice", models.SeverityDanger, fmt.Sprintf("Invalid choice %q. Choose a or b.", branch))
	}
	if !b.Requires.met(l) {
		return e.fail(l, "choice", models.SeverityDanger, fmt.Sprintf("Insufficient resources! Need %s.", b.Requires))
	}

	_, diff := e.apply(l, b.Effect)
	l.PendingChoice = nil
	desc := fmt.Sprintf("%s: %s", b.Label, diff)
	l.CurrentTurn.Events = append(l.CurrentTurn.Events, "Decided: "+desc)
	l.AddLog(models.SeveritySuccess, desc)
	e.logger.Debug("choice resolved", "id", t.ID, "branch", branch, "effects", diff)
	return Result{Success: true, Summary: diff, Ledger: l}
}

// CanResolve reports whether ResolvePendingChoice(l, branch) would succeed.
func CanResolve(l *models.Ledger, branch string) bool {
	if CheckEndCondition(l) != nil || l.PendingChoice == nil {
		return false
	}
	t, ok := lookupChoice(l.PendingChoice.ID)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(branch)) {
	case "a":
		return t.A.Requires.met(l)
	case "b":
		return t.B.Requires.met(l)
	}
	return false
}
