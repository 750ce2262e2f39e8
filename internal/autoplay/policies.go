package autoplay

import (
	"slices"

	"github.com/tatianab/bronze/internal/engine"
	"github.com/tatianab/bronze/internal/models"
)

// Heuristic plays a steady game: always harvest, shore up whatever metric is
// in danger, then invest in buildings and research that slow the collapse.
type Heuristic struct{}

var investOrder = []engine.ActionID{
	engine.ActionResearchBureaucracy,
	engine.ActionBuildLighthouse,
	engine.ActionResearchMarriage,
	engine.ActionBuildGranary,
	engine.ActionSendTribute,
	engine.ActionFormAlliance,
	engine.ActionBuildBronzeMine,
	engine.ActionBuildWatchtower,
	engine.ActionBuildPalace,
	engine.ActionResearchTinTrade,
	engine.ActionBuildBarracks,
	engine.ActionResearchPhalanx,
	engine.ActionGatherTimber,
	engine.ActionFortify,
	engine.ActionHostFestival,
}

func (Heuristic) Next(l *models.Ledger) Move {
	if l.PendingChoice != nil {
		if engine.CanResolve(l, "a") {
			return Move{Kind: MoveChoose, Branch: "a"}
		}
		return Move{Kind: MoveChoose, Branch: "b"}
	}

	avail := engine.AvailableActions(l)
	if !l.FreeActionUsed && slices.Contains(avail, engine.ActionHarvest) {
		return action(engine.ActionHarvest)
	}
	if l.PaidActionUsed {
		return Move{Kind: MoveEndTurn}
	}

	var order []engine.ActionID
	switch {
	case l.Metrics.Stability <= 30:
		order = append(order, engine.ActionHostFestival, engine.ActionFormAlliance)
	case l.Metrics.Military <= 15:
		order = append(order, engine.ActionFortify, engine.ActionFormAlliance)
	case l.Metrics.Collapse >= 85:
		order = append(order, engine.ActionSendTribute, engine.ActionFormAlliance)
	}
	order = append(order, investOrder...)
	for _, id := range order {
		if slices.Contains(avail, id) {
			return action(id)
		}
	}
	for _, id := range avail {
		if id != engine.ActionHarvest {
			return action(id)
		}
	}
	return Move{Kind: MoveEndTurn}
}

func action(id engine.ActionID) Move {
	m := Move{Kind: MoveAction, Action: id}
	if id == engine.ActionSendTribute {
		m.Args = []string{"egypt"}
	}
	return m
}

// Random picks uniformly among the moves that would succeed.
type Random struct {
	rng engine.Rand
}

func NewRandom(rng engine.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Next(l *models.Ledger) Move {
	if l.PendingChoice != nil {
		branches := []string{"b"}
		if engine.CanResolve(l, "a") {
			branches = append(branches, "a")
		}
		return Move{Kind: MoveChoose, Branch: branches[r.rng.IntN(len(branches))]}
	}

	moves := make([]Move, 0, 8)
	for _, id := range engine.AvailableActions(l) {
		m := Move{Kind: MoveAction, Action: id}
		if id == engine.ActionSendTribute {
			targets := engine.TributeTargets()
			m.Args = []string{targets[r.rng.IntN(len(targets))]}
		}
		moves = append(moves, m)
	}
	if engine.CanEndTurn(l) {
		moves = append(moves, Move{Kind: MoveEndTurn})
	}
	if len(moves) == 0 {
		return Move{Kind: MoveEndTurn}
	}
	return moves[r.rng.IntN(len(moves))]
}
