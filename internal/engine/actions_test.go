package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tatianab/bronze/internal/models"
)

func TestFailedActionsOnlyTouchTheLog(t *testing.T) {
	setups := map[string]func(*models.Ledger){
		"slots used": func(l *models.Ledger) {
			l.FreeActionUsed = true
			l.PaidActionUsed = true
		},
		"pending choice": func(l *models.Ledger) {
			l.PendingChoice, _ = NewPendingChoice("oracle")
		},
		"game over": func(l *models.Ledger) {
			l.Metrics.Stability = 0
		},
	}
	for name, setup := range setups {
		for _, a := range Catalog() {
			e := quietEngine()
			l := newNormalGame(t, e)
			setup(l)
			before := l.Clone()

			r := e.PerformAction(l, a.ID, "egypt")
			if r.Success {
				t.Errorf("%s: %s succeeded", name, a.ID)
				continue
			}
			if !reflect.DeepEqual(withoutLog(l), withoutLog(before)) {
				t.Errorf("%s: %s mutated the ledger", name, a.ID)
			}
			if len(l.Log) != len(before.Log)+1 {
				t.Errorf("%s: %s logged %d entries", name, a.ID, len(l.Log)-len(before.Log))
			}
		}
	}
}

func TestInsufficientResourcesOnlyTouchTheLog(t *testing.T) {
	for _, a := range Catalog() {
		if a.Requires == (Requirement{}) {
			continue
		}
		e := quietEngine()
		l := newNormalGame(t, e)
		l.Resources = models.Resources{}
		l.Metrics.Prestige = 0
		l.Metrics.Military = 10
		before := l.Clone()

		r := e.PerformAction(l, a.ID)
		if r.Success {
			t.Errorf("%s succeeded without resources", a.ID)
			continue
		}
		if !strings.HasPrefix(r.Summary, "Insufficient resources") {
			t.Errorf("%s: summary %q", a.ID, r.Summary)
		}
		if !reflect.DeepEqual(withoutLog(l), withoutLog(before)) {
			t.Errorf("%s mutated the ledger", a.ID)
		}
	}
}

func TestFreeActionOncePerTurn(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)

	if r := e.PerformAction(l, ActionHarvest); !r.Success {
		t.Fatal(r.Summary)
	}
	grain := l.Resources.Grain
	if r := e.PerformAction(l, ActionHarvest); r.Success {
		t.Fatal("second harvest succeeded")
	}
	if !l.FreeActionUsed || l.PaidActionUsed {
		t.Errorf("flags free=%v paid=%v", l.FreeActionUsed, l.PaidActionUsed)
	}
	if l.Resources.Grain != grain {
		t.Errorf("grain changed by failed harvest: %d -> %d", grain, l.Resources.Grain)
	}
}

func TestPaidActionOncePerTurn(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)

	if r := e.PerformAction(l, ActionGatherTimber); !r.Success {
		t.Fatal(r.Summary)
	}
	if r := e.PerformAction(l, ActionFortify); r.Success {
		t.Fatal("second paid action succeeded")
	}
	if l.FreeActionUsed {
		t.Error("paid action set the free flag")
	}
	if r := e.PerformAction(l, ActionHarvest); !r.Success {
		t.Errorf("free action blocked after paid action: %s", r.Summary)
	}
}

func TestUnlocksAreIdempotent(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)

	e.PerformAction(l, ActionHarvest)
	if r := e.PerformAction(l, ActionBuildGranary); !r.Success {
		t.Fatal(r.Summary)
	}
	if !l.Buildings.Granary {
		t.Fatal("granary flag not set")
	}
	if r := e.EndTurn(l); !r.Success {
		t.Fatal(r.Summary)
	}

	e.PerformAction(l, ActionHarvest)
	before := l.Clone()
	r := e.PerformAction(l, ActionBuildGranary)
	if r.Success {
		t.Fatal("granary built twice")
	}
	if r.Summary != "Granary already built!" {
		t.Errorf("summary = %q", r.Summary)
	}
	if !reflect.DeepEqual(withoutLog(l), withoutLog(before)) {
		t.Error("rebuild attempt charged resources or set flags")
	}
	if last := l.Log[len(l.Log)-1]; last.Severity != models.SeverityWarning {
		t.Errorf("severity = %q, want warning", last.Severity)
	}
}

func TestResearchAlreadyResearched(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)
	l.Technologies.DiplomaticMarriage = true

	r := e.PerformAction(l, ActionResearchMarriage)
	if r.Success || r.Summary != "Diplomatic Marriage already researched!" {
		t.Errorf("got %+v", r)
	}
}

func TestWithdrawSupport(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)
	l.Metrics.Stability = 44
	if r := e.PerformAction(l, ActionWithdraw); r.Success {
		t.Fatal("withdrew with stability 44")
	}

	l.Metrics.Stability = 100
	for i := 1; i <= models.MaxWithdrawals; i++ {
		l.PaidActionUsed = false
		if r := e.PerformAction(l, ActionWithdraw); !r.Success {
			t.Fatalf("withdrawal %d failed: %s", i, r.Summary)
		}
		if l.WithdrawalsUsed != i {
			t.Fatalf("withdrawals = %d, want %d", l.WithdrawalsUsed, i)
		}
	}
	if l.Metrics.Stability != 55 || l.Metrics.Collapse != 65 || l.Metrics.Military != 50 {
		t.Errorf("after three withdrawals: %+v", l.Metrics)
	}

	l.PaidActionUsed = false
	before := l.Clone()
	if r := e.PerformAction(l, ActionWithdraw); r.Success {
		t.Fatal("fourth withdrawal succeeded")
	}
	if !reflect.DeepEqual(withoutLog(l), withoutLog(before)) {
		t.Error("rejected withdrawal mutated the ledger")
	}
}

func TestSendTributeTarget(t *testing.T) {
	tests := map[string]string{
		"egypt":    "Send Tribute to Egypt",
		"Hittites": "Send Tribute to the Hittites",
		"atlantis": "Send Tribute to a great power",
		"":         "Send Tribute to a great power",
	}
	for target, want := range tests {
		e := quietEngine()
		l := newNormalGame(t, e)
		if r := e.PerformAction(l, ActionSendTribute, target); !r.Success {
			t.Fatalf("%q: %s", target, r.Summary)
		}
		if got := l.CurrentTurn.Actions[0].Name; got != want {
			t.Errorf("target %q: name %q, want %q", target, got, want)
		}
		if l.Metrics.Prestige != 35 || l.Metrics.Collapse != 47 {
			t.Errorf("tribute effect: %+v", l.Metrics)
		}
	}
}

func TestActionRecordsSummary(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)
	e.PerformAction(l, ActionHarvest)
	l.Resources.Timber = 10
	e.PerformAction(l, ActionBuildBronzeMine)

	want := []models.ActionRecord{
		{Name: "Harvest", Effects: "+15 Grain, +10 Bronze"},
		{Name: "Build Bronze Mine", Effects: "-15 Grain, -10 Timber | +2 Bronze per turn"},
	}
	if !reflect.DeepEqual(l.CurrentTurn.Actions, want) {
		t.Errorf("actions = %+v", l.CurrentTurn.Actions)
	}
}

func TestUnknownActionFailsClosed(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)
	before := l.Clone()
	if r := e.PerformAction(l, "summon_gods"); r.Success {
		t.Fatal("unknown action succeeded")
	}
	if !reflect.DeepEqual(withoutLog(l), withoutLog(before)) {
		t.Error("unknown action mutated the ledger")
	}
}

func TestAvailableActions(t *testing.T) {
	l := newNormalGame(t, quietEngine())
	got := map[ActionID]bool{}
	for _, id := range AvailableActions(l) {
		got[id] = true
	}
	for _, id := range []ActionID{ActionHarvest, ActionGatherTimber, ActionFortify, ActionWithdraw, ActionBuildGranary, ActionHostFestival} {
		if !got[id] {
			t.Errorf("%s should be available on a new game", id)
		}
	}
	for _, id := range []ActionID{ActionBuildPalace, ActionResearchTinTrade, ActionResearchPhalanx} {
		if got[id] {
			t.Errorf("%s should not be available on a new game", id)
		}
	}

	l.PendingChoice, _ = NewPendingChoice("refugees")
	if ids := AvailableActions(l); len(ids) != 0 {
		t.Errorf("actions available with a pending choice: %v", ids)
	}
}

func TestPhalanxLeavesAnArmy(t *testing.T) {
	e := quietEngine()
	l := newNormalGame(t, e)
	l.Resources.Bronze = 20
	l.Metrics.Military = 25

	if r := e.PerformAction(l, ActionResearchPhalanx); !r.Success {
		t.Fatalf("research phalanx: %s", r.Summary)
	}
	if l.Metrics.Military != 10 || l.Resources.Bronze != 0 {
		t.Errorf("military %d bronze %d, want 10 and 0", l.Metrics.Military, l.Resources.Bronze)
	}
	if CheckEndCondition(l) != nil {
		t.Error("researching phalanx at the minimum military ended the game")
	}
}
