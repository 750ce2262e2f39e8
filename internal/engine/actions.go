package engine

import (
	"fmt"

	"github.com/tatianab/bronze/internal/models"
)

// PerformAction runs catalog action id against l. A rejected action changes
// nothing but the log. args are only used by send_tribute, as the target.
func (e *Engine) PerformAction(l *models.Ledger, id ActionID, args ...string) Result {
	a, ok := LookupAction(id)
	if !ok {
		return e.fail(l, "action", models.SeverityDanger, fmt.Sprintf("Unknown action %q.", id))
	}
	if sev, msg := blocked(l, a); msg != "" {
		return e.fail(l, string(id), sev, msg)
	}

	_, diff := e.apply(l, a.Effect)
	if a.flag != nil {
		*a.flag(l) = true
	}
	if a.after != nil {
		a.after(l)
	}
	if a.Slot == SlotFree {
		l.FreeActionUsed = true
	} else {
		l.PaidActionUsed = true
	}

	name := a.Name
	if a.label != nil {
		name = a.label(args)
	}
	effects := diff
	if ongoing := a.Ongoing(); ongoing != "" {
		effects += " | " + ongoing
	}
	l.CurrentTurn.Actions = append(l.CurrentTurn.Actions, models.ActionRecord{Name: name, Effects: effects})

	sev := models.SeveritySuccess
	if id == ActionWithdraw {
		sev = models.SeverityWarning
	}
	l.AddLog(sev, fmt.Sprintf("%s: %s", name, effects))

	e.logger.Debug("action", "id", id, "turn", l.Turn, "effects", effects)
	return Result{Success: true, Summary: effects, Ledger: l}
}

// blocked returns why a cannot run now, or an empty message if it can.
func blocked(l *models.Ledger, a Action) (models.Severity, string) {
	if CheckEndCondition(l) != nil {
		return models.SeverityDanger, "The game is over. Start a new game."
	}
	if l.PendingChoice != nil {
		return models.SeverityDanger, "Resolve the pending decision first: " + l.PendingChoice.Description
	}
	if a.Slot == SlotFree && l.FreeActionUsed {
		return models.SeverityDanger, "You've already used your free action this turn!"
	}
	if a.Slot == SlotPaid && l.PaidActionUsed {
		return models.SeverityDanger, "You've already taken your paid action this turn!"
	}
	if a.Owned(l) {
		verb := "built"
		if a.Category == CategoryResearch {
			verb = "researched"
		}
		return models.SeverityWarning, fmt.Sprintf("%s already %s!", a.Unlock, verb)
	}
	if a.check != nil {
		if msg := a.check(l); msg != "" {
			return models.SeverityDanger, msg
		}
	}
	if !a.Requires.met(l) {
		return models.SeverityDanger, fmt.Sprintf("Insufficient resources! Need %s.", a.Requires)
	}
	return "", ""
}

// AvailableActions lists the actions that would succeed on l right now.
func AvailableActions(l *models.Ledger) []ActionID {
	var ids []ActionID
	for _, a := range catalog {
		if _, msg := blocked(l, a); msg == "" {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// CanEndTurn reports whether EndTurn would succeed on l.
func CanEndTurn(l *models.Ledger) bool {
	return endTurnBlocked(l) == ""
}
