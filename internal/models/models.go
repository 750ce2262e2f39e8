package models

import "slices"

const (
	// DefaultMaxTurns is the turn limit of a normal game.
	DefaultMaxTurns = 20

	// MetricMin and MetricMax bound every metric after any mutation.
	MetricMin = 0
	MetricMax = 100

	// MaxWithdrawals is how many times a realm may withdraw support in one game.
	MaxWithdrawals = 3

	// MaxLogEntries is how many log entries a Ledger retains.
	MaxLogEntries = 50
)

// Severity classifies a player-facing log message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Resources are the stockpiles spent by actions.
type Resources struct {
	Grain  int `yaml:"grain"`
	Timber int `yaml:"timber"`
	Bronze int `yaml:"bronze"`
}

// Metrics are the realm's standing, each kept within [MetricMin, MetricMax].
type Metrics struct {
	Military  int `yaml:"military"`
	Stability int `yaml:"stability"`
	Prestige  int `yaml:"prestige"`
	Collapse  int `yaml:"collapse"`
}

// Buildings are permanent unlocks. A flag never reverts once set.
type Buildings struct {
	BronzeMine bool `yaml:"bronze_mine"`
	Granary    bool `yaml:"granary"`
	Barracks   bool `yaml:"barracks"`
	Palace     bool `yaml:"palace"`
	Lighthouse bool `yaml:"lighthouse"`
	Watchtower bool `yaml:"watchtower"`
}

// Technologies are permanent unlocks. A flag never reverts once set.
type Technologies struct {
	ImperialBureaucracy bool `yaml:"imperial_bureaucracy"`
	TinTradeRoutes      bool `yaml:"tin_trade_routes"`
	PhalanxFormation    bool `yaml:"phalanx_formation"`
	DiplomaticMarriage  bool `yaml:"diplomatic_marriage"`
}

// LogEntry is a single player-facing feedback message.
type LogEntry struct {
	Severity Severity `yaml:"severity"`
	Message  string   `yaml:"message"`
}

// ChoiceOption is one branch of a pending choice.
type ChoiceOption struct {
	Label  string `yaml:"label"`
	Effect string `yaml:"effect"`
}

// PendingChoice is an outstanding two-branch decision raised by an event.
type PendingChoice struct {
	ID          string       `yaml:"id"`
	Description string       `yaml:"description"`
	A           ChoiceOption `yaml:"a"`
	B           ChoiceOption `yaml:"b"`
}

// ActionRecord is an action taken during a turn, as shown in the turn summary.
type ActionRecord struct {
	Name    string `yaml:"name"`
	Effects string `yaml:"effects"`
}

// TurnSummary is the audit trail of one turn.
type TurnSummary struct {
	Turn    int            `yaml:"turn"`
	Actions []ActionRecord `yaml:"actions,omitempty"`
	Events  []string       `yaml:"events,omitempty"`
	Income  []string       `yaml:"income,omitempty"`
	Drift   []string       `yaml:"drift,omitempty"`
}

// Clone returns a deep copy of the summary.
func (s TurnSummary) Clone() TurnSummary {
	return TurnSummary{
		Turn:    s.Turn,
		Actions: slices.Clone(s.Actions),
		Events:  slices.Clone(s.Events),
		Income:  slices.Clone(s.Income),
		Drift:   slices.Clone(s.Drift),
	}
}

// OutcomeType names how a game ended.
type OutcomeType string

const (
	OutcomeDefeat       OutcomeType = "defeat"
	OutcomePreservation OutcomeType = "preservation"
	OutcomeVacuum       OutcomeType = "vacuum"
)

// DefeatReason explains a defeat. It is empty for victories.
type DefeatReason string

const (
	ReasonStability DefeatReason = "stability"
	ReasonCollapse  DefeatReason = "collapse"
	ReasonMilitary  DefeatReason = "military"
	ReasonTime      DefeatReason = "time"
)

// Outcome is a terminal game state.
type Outcome struct {
	Type   OutcomeType  `yaml:"type"`
	Reason DefeatReason `yaml:"reason,omitempty"`
}

// Victory reports whether the outcome is a win.
func (o Outcome) Victory() bool {
	return o.Type != OutcomeDefeat
}

// Delta is a signed change to resources and metrics.
type Delta struct {
	Grain     int
	Timber    int
	Bronze    int
	Military  int
	Stability int
	Prestige  int
	Collapse  int
}

// IsZero reports whether the delta changes nothing.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// Ledger is the complete mutable state of one game.
type Ledger struct {
	ID         string
	Difficulty string

	Resources    Resources
	Metrics      Metrics
	Buildings    Buildings
	Technologies Technologies

	Turn     int
	MaxTurns int

	FreeActionUsed  bool
	PaidActionUsed  bool
	WithdrawalsUsed int

	Log           []LogEntry
	PendingChoice *PendingChoice

	CurrentTurn TurnSummary
	History     []TurnSummary
}

// AddLog appends a message, dropping the oldest entries past MaxLogEntries.
func (l *Ledger) AddLog(sev Severity, msg string) {
	l.Log = append(l.Log, LogEntry{Severity: sev, Message: msg})
	if over := len(l.Log) - MaxLogEntries; over > 0 {
		l.Log = slices.Delete(l.Log, 0, over)
	}
}

// RecentLog returns at most the last n log entries.
func (l *Ledger) RecentLog(n int) []LogEntry {
	if n <= 0 || len(l.Log) == 0 {
		return nil
	}
	if n > len(l.Log) {
		n = len(l.Log)
	}
	return l.Log[len(l.Log)-n:]
}

// LastSummary returns the most recently archived turn summary.
func (l *Ledger) LastSummary() (TurnSummary, bool) {
	if len(l.History) == 0 {
		return TurnSummary{}, false
	}
	return l.History[len(l.History)-1], true
}

// Clamp forces metrics into range and floors resources at zero.
func (l *Ledger) Clamp() {
	l.Resources.Grain = max(0, l.Resources.Grain)
	l.Resources.Timber = max(0, l.Resources.Timber)
	l.Resources.Bronze = max(0, l.Resources.Bronze)
	l.Metrics.Military = clampMetric(l.Metrics.Military)
	l.Metrics.Stability = clampMetric(l.Metrics.Stability)
	l.Metrics.Prestige = clampMetric(l.Metrics.Prestige)
	l.Metrics.Collapse = clampMetric(l.Metrics.Collapse)
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.Log = slices.Clone(l.Log)
	if l.PendingChoice != nil {
		pc := *l.PendingChoice
		c.PendingChoice = &pc
	}
	c.CurrentTurn = l.CurrentTurn.Clone()
	if l.History != nil {
		c.History = make([]TurnSummary, len(l.History))
		for i, s := range l.History {
			c.History[i] = s.Clone()
		}
	}
	return &c
}

func clampMetric(v int) int {
	return min(MetricMax, max(MetricMin, v))
}
