// Package command turns typed player input into game commands.
package command

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tatianab/bronze/internal/engine"
)

type Kind int

const (
	Unknown Kind = iota
	Action
	Choose
	EndTurn
	NewGame
	Save
	Load
	ListSaves
	Help
	Quit
)

// Command is a parsed line of input.
type Command struct {
	Kind   Kind
	Action engine.ActionID
	Args   []string
	Raw    string
	// Fuzzy is set when the verb matched only approximately.
	Fuzzy bool
	// Suggestion is the closest known verb when Kind is Unknown.
	Suggestion string
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

type phrase struct {
	alias  string
	tokens []string
	kind   Kind
	action engine.ActionID
}

// Parser matches input against the registered verbs and their aliases.
type Parser struct {
	phrases []phrase
}

const (
	acceptScore  = 0.8
	suggestScore = 0.5
)

var actionAliases = map[engine.ActionID][]string{
	engine.ActionHarvest:             {"harvest fields", "reap"},
	engine.ActionGatherTimber:        {"gather", "timber", "chop"},
	engine.ActionFortify:             {"fortify walls"},
	engine.ActionWithdraw:            {"withdraw", "withdraw from alliance"},
	engine.ActionResearchBureaucracy: {"bureaucracy", "research bureaucracy"},
	engine.ActionResearchTinTrade:    {"tin trade", "trade routes", "research tin trade"},
	engine.ActionResearchPhalanx:     {"phalanx", "research phalanx"},
	engine.ActionResearchMarriage:    {"marriage", "research marriage"},
	engine.ActionBuildBronzeMine:     {"mine", "build mine"},
	engine.ActionBuildGranary:        {"granary"},
	engine.ActionBuildBarracks:       {"barracks"},
	engine.ActionBuildPalace:         {"palace"},
	engine.ActionBuildLighthouse:     {"lighthouse"},
	engine.ActionBuildWatchtower:     {"watchtower"},
	engine.ActionSendTribute:         {"tribute"},
	engine.ActionFormAlliance:        {"alliance", "ally"},
	engine.ActionHostFestival:        {"festival"},
}

var metaAliases = map[Kind][]string{
	Choose:    {"choose", "choice", "decide", "pick"},
	EndTurn:   {"end", "end turn", "next", "next turn"},
	NewGame:   {"new", "new game", "restart"},
	Save:      {"save"},
	Load:      {"load"},
	ListSaves: {"saves", "list saves"},
	Help:      {"help", "?", "commands"},
	Quit:      {"quit", "exit"},
}

// New returns a parser that knows every catalog action and the meta commands.
func New() *Parser {
	p := &Parser{}
	for _, a := range engine.Catalog() {
		p.register(Action, a.ID, string(a.ID))
		p.register(Action, a.ID, a.Name)
		for _, alias := range actionAliases[a.ID] {
			p.register(Action, a.ID, alias)
		}
	}
	for kind, aliases := range metaAliases {
		for _, alias := range aliases {
			p.register(kind, "", alias)
		}
	}
	return p
}

func (p *Parser) register(kind Kind, id engine.ActionID, alias string) {
	n := normalise(alias)
	if n == "" {
		return
	}
	for _, ph := range p.phrases {
		if ph.alias == n {
			return
		}
	}
	p.phrases = append(p.phrases, phrase{alias: n, tokens: strings.Fields(n), kind: kind, action: id})
}

// Parse interprets one line of input.
func (p *Parser) Parse(raw string) Command {
	cmd := Command{Raw: raw}
	tokens := strings.Fields(normalise(raw))
	if len(tokens) == 0 {
		return cmd
	}
	if len(tokens) == 1 && (tokens[0] == "a" || tokens[0] == "b") {
		cmd.Kind = Choose
		cmd.Args = tokens
		return cmd
	}

	best, score, consumed := p.match(tokens)
	if best == nil || score < acceptScore {
		if best != nil && score >= suggestScore {
			cmd.Suggestion = best.alias
		}
		return cmd
	}
	cmd.Kind = best.kind
	cmd.Action = best.action
	cmd.Fuzzy = score < 1
	if consumed < len(tokens) {
		cmd.Args = tokens[consumed:]
	}
	return cmd
}

// match returns the best phrase for the leading tokens, preferring exact
// matches, then higher similarity, then longer phrases.
func (p *Parser) match(tokens []string) (*phrase, float64, int) {
	var best *phrase
	bestScore, bestLen := 0.0, 0
	for i := range p.phrases {
		ph := &p.phrases[i]
		n := len(ph.tokens)
		if n > len(tokens) {
			continue
		}
		prefix := strings.Join(tokens[:n], " ")
		score := similarity(prefix, ph.alias)
		if score > bestScore || (score == bestScore && n > bestLen) {
			best, bestScore, bestLen = ph, score, n
		}
	}
	return best, bestScore, bestLen
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func normalise(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ", "/", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// HelpText lists the commands a player can type.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Actions (one free + one paid per turn):\n")
	for _, a := range engine.Catalog() {
		line := fmt.Sprintf("  %-30s %s", strings.ReplaceAll(string(a.ID), "_", " "), engine.FormatDelta(a.Effect))
		if a.Slot == engine.SlotFree {
			line += " (free)"
		}
		if req := a.Requires.String(); req != "" {
			line += " [needs " + req + "]"
		}
		if on := a.Ongoing(); on != "" {
			line += " then " + on
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("  tribute <egypt|hittites|assyria|mycenae> names the recipient\n")
	b.WriteString("Other: a / b (decide), end, new [easy|normal|hard], save [name], load [name], saves, help, quit")
	return b.String()
}
