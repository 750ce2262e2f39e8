package models

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the version written by Serialize and accepted by Deserialize.
const SnapshotVersion = 1

// ErrInvalidSnapshot is returned for snapshots that cannot be turned into a Ledger.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

type snapshot struct {
	Version         int            `yaml:"version"`
	ID              string         `yaml:"id"`
	Difficulty      string         `yaml:"difficulty"`
	Resources       Resources      `yaml:"resources"`
	Metrics         Metrics        `yaml:"metrics"`
	Buildings       Buildings      `yaml:"buildings"`
	Technologies    Technologies   `yaml:"technologies"`
	Turn            int            `yaml:"turn"`
	MaxTurns        int            `yaml:"max_turns"`
	FreeActionUsed  bool           `yaml:"free_action_used"`
	PaidActionUsed  bool           `yaml:"paid_action_used"`
	WithdrawalsUsed int            `yaml:"withdrawals_used"`
	Log             []LogEntry     `yaml:"log,omitempty"`
	PendingChoice   *PendingChoice `yaml:"pending_choice,omitempty"`
	CurrentTurn     TurnSummary    `yaml:"current_turn"`
	History         []TurnSummary  `yaml:"history,omitempty"`
}

var requiredKeys = map[string][]string{
	"": {
		"version", "id", "difficulty", "resources", "metrics", "buildings", "technologies",
		"turn", "max_turns", "free_action_used", "paid_action_used", "withdrawals_used",
		"current_turn",
	},
	"resources":    {"grain", "timber", "bronze"},
	"metrics":      {"military", "stability", "prestige", "collapse"},
	"buildings":    {"bronze_mine", "granary", "barracks", "palace", "lighthouse", "watchtower"},
	"technologies": {"imperial_bureaucracy", "tin_trade_routes", "phalanx_formation", "diplomatic_marriage"},
	"current_turn": {"turn"},
}

// Serialize encodes the ledger as a YAML snapshot.
func Serialize(l *Ledger) ([]byte, error) {
	s := snapshot{
		Version:         SnapshotVersion,
		ID:              l.ID,
		Difficulty:      l.Difficulty,
		Resources:       l.Resources,
		Metrics:         l.Metrics,
		Buildings:       l.Buildings,
		Technologies:    l.Technologies,
		Turn:            l.Turn,
		MaxTurns:        l.MaxTurns,
		FreeActionUsed:  l.FreeActionUsed,
		PaidActionUsed:  l.PaidActionUsed,
		WithdrawalsUsed: l.WithdrawalsUsed,
		Log:             l.Log,
		PendingChoice:   l.PendingChoice,
		CurrentTurn:     l.CurrentTurn,
		History:         l.History,
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Deserialize decodes a snapshot written by Serialize. Missing or unknown keys
// are errors; out-of-range values are repaired and reported in the ledger log.
func Deserialize(data []byte) (*Ledger, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSnapshot)
	}
	doc := root.Content[0]
	for section, keys := range requiredKeys {
		node := doc
		if section != "" {
			node = mappingValue(doc, section)
		}
		if err := requireKeys(node, section, keys); err != nil {
			return nil, err
		}
	}

	var s snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, s.Version)
	}

	l := &Ledger{
		ID:              s.ID,
		Difficulty:      s.Difficulty,
		Resources:       s.Resources,
		Metrics:         s.Metrics,
		Buildings:       s.Buildings,
		Technologies:    s.Technologies,
		Turn:            s.Turn,
		MaxTurns:        s.MaxTurns,
		FreeActionUsed:  s.FreeActionUsed,
		PaidActionUsed:  s.PaidActionUsed,
		WithdrawalsUsed: s.WithdrawalsUsed,
		Log:             s.Log,
		PendingChoice:   s.PendingChoice,
		CurrentTurn:     s.CurrentTurn,
		History:         s.History,
	}
	normalize(l)
	return l, nil
}

func normalize(l *Ledger) {
	var repairs []string
	if l.Turn < 1 {
		repairs = append(repairs, fmt.Sprintf("turn %d raised to 1", l.Turn))
		l.Turn = 1
	}
	if l.MaxTurns < 1 {
		repairs = append(repairs, fmt.Sprintf("max turns %d reset to %d", l.MaxTurns, DefaultMaxTurns))
		l.MaxTurns = DefaultMaxTurns
	}
	if l.WithdrawalsUsed < 0 || l.WithdrawalsUsed > MaxWithdrawals {
		v := min(MaxWithdrawals, max(0, l.WithdrawalsUsed))
		repairs = append(repairs, fmt.Sprintf("withdrawals %d clamped to %d", l.WithdrawalsUsed, v))
		l.WithdrawalsUsed = v
	}
	before := *l
	l.Clamp()
	if before.Resources != l.Resources {
		repairs = append(repairs, "negative resources raised to 0")
	}
	if before.Metrics != l.Metrics {
		repairs = append(repairs, "metrics clamped to 0-100")
	}
	if l.PendingChoice != nil && l.PendingChoice.ID == "" {
		repairs = append(repairs, "pending choice without id dropped")
		l.PendingChoice = nil
	}
	if l.CurrentTurn.Turn != l.Turn {
		repairs = append(repairs, fmt.Sprintf("turn summary number %d set to %d", l.CurrentTurn.Turn, l.Turn))
		l.CurrentTurn.Turn = l.Turn
	}
	for i, e := range l.Log {
		switch e.Severity {
		case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityDanger:
		default:
			l.Log[i].Severity = SeverityInfo
		}
	}
	for _, r := range repairs {
		l.AddLog(SeverityWarning, "Save repaired: "+r)
	}
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func requireKeys(node *yaml.Node, section string, keys []string) error {
	where := "snapshot"
	if section != "" {
		where = section
	}
	if node == nil || node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: %s is not a mapping", ErrInvalidSnapshot, where)
	}
	for _, k := range keys {
		if mappingValue(node, k) == nil {
			return fmt.Errorf("%w: %s is missing %q", ErrInvalidSnapshot, where, k)
		}
	}
	return nil
}
