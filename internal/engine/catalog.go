package engine

import (
	"fmt"
	"strings"

	"github.com/tatianab/bronze/internal/models"
)

// ActionID names a catalog action.
type ActionID string

const (
	ActionHarvest      ActionID = "harvest"
	ActionGatherTimber ActionID = "gather_timber"
	ActionFortify      ActionID = "fortify"
	ActionWithdraw     ActionID = "withdraw_support"

	ActionResearchBureaucracy ActionID = "research_imperial_bureaucracy"
	ActionResearchTinTrade    ActionID = "research_tin_trade_routes"
	ActionResearchPhalanx     ActionID = "research_phalanx_formation"
	ActionResearchMarriage    ActionID = "research_diplomatic_marriage"

	ActionBuildBronzeMine ActionID = "build_bronze_mine"
	ActionBuildGranary    ActionID = "build_granary"
	ActionBuildBarracks   ActionID = "build_barracks"
	ActionBuildPalace     ActionID = "build_palace"
	ActionBuildLighthouse ActionID = "build_lighthouse"
	ActionBuildWatchtower ActionID = "build_watchtower"

	ActionSendTribute  ActionID = "send_tribute"
	ActionFormAlliance ActionID = "form_alliance"
	ActionHostFestival ActionID = "host_festival"
)

// Slot is the per-turn action slot an action consumes.
type Slot int

const (
	SlotFree Slot = iota
	SlotPaid
)

func (s Slot) String() string {
	if s == SlotFree {
		return "free"
	}
	return "paid"
}

// Category groups actions for display.
type Category string

const (
	CategoryEconomy   Category = "economy"
	CategoryMilitary  Category = "military"
	CategoryBuilding  Category = "building"
	CategoryResearch  Category = "research"
	CategoryDiplomacy Category = "diplomacy"
)

// Requirement is a set of minimum amounts. Zero fields are not checked.
type Requirement struct {
	Grain    int
	Timber   int
	Bronze   int
	Military int
	Prestige int
}

func (r Requirement) met(l *models.Ledger) bool {
	return l.Resources.Grain >= r.Grain &&
		l.Resources.Timber >= r.Timber &&
		l.Resources.Bronze >= r.Bronze &&
		l.Metrics.Military >= r.Military &&
		l.Metrics.Prestige >= r.Prestige
}

func (r Requirement) String() string {
	var parts []string
	add := func(v int, name string) {
		if v > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", v, name))
		}
	}
	add(r.Grain, "Grain")
	add(r.Timber, "Timber")
	add(r.Bronze, "Bronze")
	add(r.Military, "Military")
	add(r.Prestige, "Prestige")
	return strings.Join(parts, ", ")
}

// Action describes one catalog entry.
type Action struct {
	ID       ActionID
	Name     string
	Slot     Slot
	Category Category
	Requires Requirement
	Effect   models.Delta

	// Unlock names the building or technology the action grants, if any.
	Unlock string
	// Income is applied at every turn closure once the unlock is held.
	Income models.Delta
	// Note describes an ongoing effect that is not income.
	Note string

	flag  func(*models.Ledger) *bool
	check func(*models.Ledger) string
	after func(*models.Ledger)
	label func(args []string) string
}

// Ongoing describes the permanent effect of an unlock, if any.
func (a Action) Ongoing() string {
	switch {
	case !a.Income.IsZero():
		return FormatDelta(a.Income) + " per turn"
	case a.Note != "":
		return a.Note
	}
	return ""
}

// Owned reports whether the action's unlock is already held.
func (a Action) Owned(l *models.Ledger) bool {
	return a.flag != nil && *a.flag(l)
}

var tributeTargets = map[string]string{
	"egypt":    "Egypt",
	"hittites": "the Hittites",
	"assyria":  "Assyria",
	"mycenae":  "Mycenae",
}

// TributeTargets lists the known tribute recipients.
func TributeTargets() []string {
	return []string{"egypt", "hittites", "assyria", "mycenae"}
}

func tributeLabel(args []string) string {
	name := "a great power"
	if len(args) > 0 {
		if n, ok := tributeTargets[strings.ToLower(strings.TrimSpace(args[0]))]; ok {
			name = n
		}
	}
	return "Send Tribute to " + name
}

var catalog = []Action{
	{
		ID: ActionHarvest, Name: "Harvest", Slot: SlotFree, Category: CategoryEconomy,
		Effect: models.Delta{Grain: 15, Bronze: 10},
	},
	{
		ID: ActionGatherTimber, Name: "Gather Timber", Slot: SlotPaid, Category: CategoryEconomy,
		Requires: Requirement{Grain: 8},
		Effect:   models.Delta{Grain: -8, Timber: 10},
	},
	{
		ID: ActionFortify, Name: "Fortify", Slot: SlotPaid, Category: CategoryMilitary,
		Requires: Requirement{Bronze: 5},
		Effect:   models.Delta{Bronze: -5, Military: 5},
	},
	{
		ID: ActionWithdraw, Name: "Withdraw Support", Slot: SlotPaid, Category: CategoryMilitary,
		Effect: models.Delta{Military: 10, Stability: -15, Prestige: -10, Collapse: 5},
		check: func(l *models.Ledger) string {
			if l.WithdrawalsUsed >= models.MaxWithdrawals {
				return fmt.Sprintf("Cannot withdraw! Support has already been withdrawn %d times.", models.MaxWithdrawals)
			}
			if l.Metrics.Stability < 45 {
				return "Cannot withdraw! Stability too low (need 45)."
			}
			return ""
		},
		after: func(l *models.Ledger) { l.WithdrawalsUsed++ },
	},

	{
		ID: ActionBuildBronzeMine, Name: "Build Bronze Mine", Slot: SlotPaid, Category: CategoryBuilding,
		Requires: Requirement{Grain: 15, Timber: 10},
		Effect:   models.Delta{Grain: -15, Timber: -10},
		Unlock:   "Bronze Mine", Income: models.Delta{Bronze: 2},
		flag: func(l *models.Ledger) *bool { return &l.Buildings.BronzeMine },
	},
	{
		ID: ActionBuildGranary, Name: "Build Granary", Slot: SlotPaid, Category: CategoryBuilding,
		Requires: Requirement{Grain: 20, Timber: 15},
		Effect:   models.Delta{Grain: -20, Timber: -15},
		Unlock:   "Granary", Income: models.Delta{Grain: 3},
		flag: func(l *models.Ledger) *bool { return &l.Buildings.Granary },
	},
	{
		ID: ActionBuildBarracks, Name: "Build Barracks", Slot: SlotPaid, Category: CategoryBuilding,
		Requires: Requirement{Grain: 25, Timber: 20, Bronze: 10},
		Effect:   models.Delta{Grain: -25, Timber: -20, Bronze: -10},
		Unlock:   "Barracks", Income: models.Delta{Military: 2},
		flag: func(l *models.Ledger) *bool { return &l.Buildings.Barracks },
	},
	{
		ID: ActionBuildPalace, Name: "Build Palace", Slot: SlotPaid, Category: CategoryBuilding,
		Requires: Requirement{Grain: 30, Timber: 25, Bronze: 15},
		Effect:   models.Delta{Grain: -30, Timber: -25, Bronze: -15},
		Unlock:   "Palace", Income: models.Delta{Prestige: 3},
		flag: func(l *models.Ledger) *bool { return &l.Buildings.Palace },
	},
	{
		ID: ActionBuildLighthouse, Name: "Build Lighthouse", Slot: SlotPaid, Category: CategoryBuilding,
		Requires: Requirement{Grain: 20, Timber: 20},
		Effect:   models.Delta{Grain: -20, Timber: -20},
		Unlock:   "Lighthouse", Income: models.Delta{Prestige: 2, Collapse: -1},
		flag: func(l *models.Ledger) *bool { return &l.Buildings.Lighthouse },
	},
	{
		ID: ActionBuildWatchtower, Name: "Build Watchtower", Slot: SlotPaid, Category: CategoryBuilding,
		Requires: Requirement{Grain: 15, Timber: 15},
		Effect:   models.Delta{Grain: -15, Timber: -15},
		Unlock:   "Watchtower", Income: models.Delta{Military: 1},
		flag: func(l *models.Ledger) *bool { return &l.Buildings.Watchtower },
	},

	{
		ID: ActionResearchBureaucracy, Name: "Research Imperial Bureaucracy", Slot: SlotPaid, Category: CategoryResearch,
		Requires: Requirement{Grain: 20, Prestige: 20},
		Effect:   models.Delta{Grain: -20, Prestige: -20},
		Unlock:   "Imperial Bureaucracy", Note: "stability losses reduced by 25%",
		flag: func(l *models.Ledger) *bool { return &l.Technologies.ImperialBureaucracy },
	},
	{
		ID: ActionResearchTinTrade, Name: "Research Tin Trade Routes", Slot: SlotPaid, Category: CategoryResearch,
		Requires: Requirement{Grain: 25, Bronze: 15},
		Effect:   models.Delta{Grain: -25, Bronze: -15},
		Unlock:   "Tin Trade Routes", Income: models.Delta{Bronze: 1},
		flag: func(l *models.Ledger) *bool { return &l.Technologies.TinTradeRoutes },
	},
	{
		ID: ActionResearchPhalanx, Name: "Research Phalanx Formation", Slot: SlotPaid, Category: CategoryResearch,
		Requires: Requirement{Bronze: 20, Military: 25},
		Effect:   models.Delta{Bronze: -20, Military: -15},
		Unlock:   "Phalanx Formation", Income: models.Delta{Military: 2},
		flag: func(l *models.Ledger) *bool { return &l.Technologies.PhalanxFormation },
	},
	{
		ID: ActionResearchMarriage, Name: "Research Diplomatic Marriage", Slot: SlotPaid, Category: CategoryResearch,
		Requires: Requirement{Prestige: 30},
		Effect:   models.Delta{Prestige: -30},
		Unlock:   "Diplomatic Marriage", Income: models.Delta{Prestige: 1, Collapse: -1},
		flag: func(l *models.Ledger) *bool { return &l.Technologies.DiplomaticMarriage },
	},

	{
		ID: ActionSendTribute, Name: "Send Tribute", Slot: SlotPaid, Category: CategoryDiplomacy,
		Requires: Requirement{Grain: 15, Bronze: 10},
		Effect:   models.Delta{Grain: -15, Bronze: -10, Prestige: 5, Collapse: -3},
		label:    tributeLabel,
	},
	{
		ID: ActionFormAlliance, Name: "Form Alliance", Slot: SlotPaid, Category: CategoryDiplomacy,
		Requires: Requirement{Prestige: 15},
		Effect:   models.Delta{Prestige: -15, Stability: 5, Military: 5, Collapse: -2},
	},
	{
		ID: ActionHostFestival, Name: "Host Festival", Slot: SlotPaid, Category: CategoryDiplomacy,
		Requires: Requirement{Grain: 20},
		Effect:   models.Delta{Grain: -20, Stability: 10, Prestige: 3},
	},
}

var catalogIndex = func() map[ActionID]int {
	m := make(map[ActionID]int, len(catalog))
	for i, a := range catalog {
		m[a.ID] = i
	}
	return m
}()

// Catalog returns every action in display order.
func Catalog() []Action {
	out := make([]Action, len(catalog))
	copy(out, catalog)
	return out
}

// LookupAction returns the catalog entry for id.
func LookupAction(id ActionID) (Action, bool) {
	i, ok := catalogIndex[id]
	if !ok {
		return Action{}, false
	}
	return catalog[i], true
}
