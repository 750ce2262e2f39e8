package engine

import (
	"github.com/tatianab/bronze/internal/models"
)

// Bucket probabilities for the single event draw made at each turn closure.
// Whatever mass remains after the three buckets means no event.
const (
	CrisisChance   = 0.50
	PositiveChance = 0.30
	ChoiceChance   = 0.10
)

// Event is a weighted entry of an event table.
type Event struct {
	Name   string
	Weight int
	Effect models.Delta
}

var positiveEvents = []Event{
	{Name: "Bountiful Harvest", Weight: 15, Effect: models.Delta{Grain: 10, Stability: 5, Collapse: -2}},
	{Name: "Trade Caravan Arrives", Weight: 12, Effect: models.Delta{Bronze: 8, Prestige: 3, Collapse: -1}},
	{Name: "Diplomatic Victory", Weight: 10, Effect: models.Delta{Prestige: 8, Collapse: -3}},
	{Name: "Military Recruitment", Weight: 8, Effect: models.Delta{Military: 8, Grain: -5}},
	{Name: "Cultural Renaissance", Weight: 8, Effect: models.Delta{Prestige: 10, Stability: 5}},
	{Name: "Improved Irrigation", Weight: 7, Effect: models.Delta{Grain: 12, Collapse: -2}},
}

var crisisEvents = []Event{
	{Name: "Earthquake", Weight: 8, Effect: models.Delta{Timber: -8, Stability: -5, Collapse: 3}},
	{Name: "Pirate Raid", Weight: 8, Effect: models.Delta{Bronze: -6, Military: -3, Collapse: 2}},
	{Name: "Drought", Weight: 8, Effect: models.Delta{Grain: -10, Stability: -5, Collapse: 2}},
	{Name: "Rebellion", Weight: 7, Effect: models.Delta{Stability: -10, Military: -5, Collapse: 4}},
	{Name: "Trade Disruption", Weight: 6, Effect: models.Delta{Bronze: -8, Prestige: -5, Collapse: 3}},
	{Name: "Sea Peoples Raid", Weight: 5, Effect: models.Delta{Grain: -8, Military: -5, Stability: -3, Collapse: 4}},
	{Name: "Plague", Weight: 4, Effect: models.Delta{Grain: -5, Stability: -8, Prestige: -3, Collapse: 3}},
}

// PositiveEvents returns a copy of the positive event table.
func PositiveEvents() []Event { return append([]Event(nil), positiveEvents...) }

// CrisisEvents returns a copy of the crisis event table.
func CrisisEvents() []Event { return append([]Event(nil), crisisEvents...) }

// SelectWeighted draws an index from weights with probability proportional to
// its weight. It returns -1 if no weight is positive.
func SelectWeighted(rng Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += max(0, w)
	}
	if total == 0 {
		return -1
	}
	draw := rng.IntN(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += max(0, w)
		if cumulative > draw {
			return i
		}
	}
	return len(weights) - 1
}

func eventWeights(events []Event) []int {
	w := make([]int, len(events))
	for i, ev := range events {
		w[i] = ev.Weight
	}
	return w
}

// rollEvent makes the single end-of-turn event draw.
func (e *Engine) rollEvent(l *models.Ledger) {
	u := e.rng.Float64()
	switch {
	case u < CrisisChance:
		e.fireEvent(l, crisisEvents)
	case u < CrisisChance+PositiveChance:
		e.fireEvent(l, positiveEvents)
	case u < CrisisChance+PositiveChance+ChoiceChance:
		e.raiseChoice(l)
	default:
		e.logger.Debug("no event", "turn", l.Turn)
	}
}

func (e *Engine) fireEvent(l *models.Ledger, table []Event) {
	i := SelectWeighted(e.rng, eventWeights(table))
	if i < 0 {
		return
	}
	ev := table[i]
	applied, diff := e.apply(l, ev.Effect)
	desc := ev.Name + ": " + diff
	l.CurrentTurn.Events = append(l.CurrentTurn.Events, desc)

	sev := models.SeverityInfo
	switch {
	case applied.Collapse < 0:
		sev = models.SeveritySuccess
	case applied.Collapse > 0:
		sev = models.SeverityWarning
	}
	l.AddLog(sev, "EVENT: "+desc)
	e.logger.Debug("event", "name", ev.Name, "turn", l.Turn, "effects", diff)
}
