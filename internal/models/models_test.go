package models

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleLedger() *Ledger {
	return &Ledger{
		ID:         "0b8f3c2e-5d7a-4c1e-9a55-1f0e2d3c4b5a",
		Difficulty: "hard",
		Resources:  Resources{Grain: 42, Timber: 7, Bronze: 0},
		Metrics:    Metrics{Military: 33, Stability: 51, Prestige: 12, Collapse: 77},
		Buildings:  Buildings{Granary: true, Watchtower: true},
		Technologies: Technologies{
			ImperialBureaucracy: true,
		},
		Turn:            6,
		MaxTurns:        16,
		FreeActionUsed:  true,
		WithdrawalsUsed: 2,
		Log: []LogEntry{
			{Severity: SeveritySuccess, Message: "Harvested: +15 Grain, +10 Bronze"},
			{Severity: SeverityDanger, Message: "Insufficient resources! Need 20 Grain, 20 Timber."},
		},
		PendingChoice: &PendingChoice{
			ID:          "vassal_aid",
			Description: "A vassal city begs for grain.",
			A:           ChoiceOption{Label: "Send grain", Effect: "-20 Grain, +5 Stability"},
			B:           ChoiceOption{Label: "Refuse", Effect: "-5 Stability"},
		},
		CurrentTurn: TurnSummary{
			Turn:    6,
			Actions: []ActionRecord{{Name: "Harvest", Effects: "+15 Grain, +10 Bronze"}},
		},
		History: []TurnSummary{
			{Turn: 5, Actions: []ActionRecord{{Name: "Harvest", Effects: "+15 Grain"}}, Drift: []string{"Collapse: +3"}},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, l := range []*Ledger{sampleLedger(), {ID: "x", Difficulty: "normal", Turn: 1, MaxTurns: 20, CurrentTurn: TurnSummary{Turn: 1}}} {
		data, err := Serialize(l)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		got, err := Deserialize(data)
		if err != nil {
			t.Fatalf("Deserialize: %v\n%s", err, data)
		}
		if !reflect.DeepEqual(got, l) {
			t.Errorf("round trip mismatch\nwant %+v\ngot  %+v", l, got)
		}
	}
}

func TestDeserializeRejectsUnknownKeys(t *testing.T) {
	data, err := Serialize(sampleLedger())
	if err != nil {
		t.Fatal(err)
	}
	data = append(data, []byte("knowledge: 20\n")...)
	if _, err := Deserialize(data); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestDeserializeRejectsMissingKeys(t *testing.T) {
	data, err := Serialize(sampleLedger())
	if err != nil {
		t.Fatal(err)
	}
	for _, drop := range []string{"turn", "metrics", "stability"} {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			t.Fatal(err)
		}
		if drop == "stability" {
			delete(doc["metrics"].(map[string]any), drop)
		} else {
			delete(doc, drop)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := Deserialize(out); !errors.Is(err, ErrInvalidSnapshot) {
			t.Errorf("dropping %q: expected ErrInvalidSnapshot, got %v", drop, err)
		}
	}
}

func TestDeserializeNormalizes(t *testing.T) {
	l := sampleLedger()
	l.Turn = 0
	l.CurrentTurn.Turn = 0
	l.Metrics.Collapse = 140
	l.Resources.Grain = -5
	l.WithdrawalsUsed = 9
	data, err := Serialize(l)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Turn != 1 || got.CurrentTurn.Turn != 1 {
		t.Errorf("turn = %d (summary %d), want 1", got.Turn, got.CurrentTurn.Turn)
	}
	if got.Metrics.Collapse != 100 {
		t.Errorf("collapse = %d, want 100", got.Metrics.Collapse)
	}
	if got.Resources.Grain != 0 {
		t.Errorf("grain = %d, want 0", got.Resources.Grain)
	}
	if got.WithdrawalsUsed != MaxWithdrawals {
		t.Errorf("withdrawals = %d, want %d", got.WithdrawalsUsed, MaxWithdrawals)
	}
	last := got.Log[len(got.Log)-1]
	if last.Severity != SeverityWarning || !strings.HasPrefix(last.Message, "Save repaired") {
		t.Errorf("expected a repair warning, got %+v", last)
	}
}

func TestDeserializeRejectsVersion(t *testing.T) {
	data, err := Serialize(sampleLedger())
	if err != nil {
		t.Fatal(err)
	}
	data = []byte(strings.Replace(string(data), "version: 1", "version: 7", 1))
	if _, err := Deserialize(data); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestAddLogKeepsWindow(t *testing.T) {
	var l Ledger
	for i := 0; i < MaxLogEntries+7; i++ {
		l.AddLog(SeverityInfo, strings.Repeat("x", i+1))
	}
	if len(l.Log) != MaxLogEntries {
		t.Fatalf("len(Log) = %d, want %d", len(l.Log), MaxLogEntries)
	}
	if got := len(l.Log[0].Message); got != 8 {
		t.Errorf("oldest kept message has length %d, want 8", got)
	}
	if got := l.RecentLog(3); len(got) != 3 || len(got[2].Message) != MaxLogEntries+7 {
		t.Errorf("RecentLog(3) = %+v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	l := sampleLedger()
	c := l.Clone()
	if !reflect.DeepEqual(l, c) {
		t.Fatal("clone differs from original")
	}
	c.PendingChoice.ID = "changed"
	c.History[0].Drift[0] = "changed"
	c.Log[0].Message = "changed"
	if l.PendingChoice.ID == "changed" || l.History[0].Drift[0] == "changed" || l.Log[0].Message == "changed" {
		t.Error("mutating the clone changed the original")
	}
}

func TestStoreSaveLoadList(t *testing.T) {
	store := NewStore(t.TempDir())

	saves, err := store.List()
	if err != nil || len(saves) != 0 {
		t.Fatalf("List on empty store = %v, %v", saves, err)
	}

	l := sampleLedger()
	if err := store.Save("current", l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save("backup", l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load("current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Errorf("loaded ledger differs")
	}

	saves, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(saves, []string{"backup", "current"}) {
		t.Errorf("List = %v", saves)
	}

	if err := store.Delete("backup"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("backup"); !errors.Is(err, ErrNoSave) {
		t.Errorf("expected ErrNoSave, got %v", err)
	}
	if err := store.Save("../escape", l); err == nil {
		t.Error("expected an error for a save name with a path separator")
	}
}
