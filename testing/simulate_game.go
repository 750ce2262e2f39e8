package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/bronze/internal/autoplay"
	"github.com/tatianab/bronze/internal/command"
	"github.com/tatianab/bronze/internal/config"
	"github.com/tatianab/bronze/internal/engine"
	"github.com/tatianab/bronze/internal/logger"
	"github.com/tatianab/bronze/internal/models"
	"google.golang.org/api/option"
)

func main() {
	var (
		games      int
		policyName string
		difficulty string
		seed       int64
		verbose    bool
	)
	flag.IntVar(&games, "games", 100, "number of games to simulate")
	flag.StringVar(&policyName, "policy", "heuristic", "player policy (heuristic, random, gemini)")
	flag.StringVar(&difficulty, "difficulty", "normal", "difficulty preset (easy, normal, hard)")
	flag.Int64Var(&seed, "seed", 1, "seed of the first game; game i uses seed+i")
	flag.BoolVar(&verbose, "v", false, "print every move of every game")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logCfg := cfg.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	lg, closer, err := logger.New(logCfg, false)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer closer.Close()

	d, err := engine.ParseDifficulty(difficulty)
	if err != nil {
		log.Fatal(err)
	}

	var player *geminiPlayer
	if policyName == "gemini" {
		if !cfg.ChronicleEnabled() {
			log.Fatal("The gemini policy needs GEMINI_API_KEY")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer client.Close()
		player = &geminiPlayer{ctx: ctx, model: client.GenerativeModel(cfg.GeminiModel), parser: command.New(), logger: lg}
	}

	results := map[string]int{}
	turns := 0
	for i := 0; i < games; i++ {
		gameSeed := seed + int64(i)
		opts := []engine.Option{engine.WithLogger(lg)}
		eng := engine.NewSeeded(gameSeed, opts...)
		l, err := eng.NewGame(engine.GameConfig{Difficulty: d})
		if err != nil {
			log.Fatal(err)
		}

		var policy autoplay.Policy
		switch policyName {
		case "heuristic":
			policy = autoplay.Heuristic{}
		case "random":
			policy = autoplay.NewRandom(engine.NewSource(gameSeed ^ 0x5eed))
		case "gemini":
			policy = player
		default:
			log.Fatalf("Unknown policy %q", policyName)
		}
		if verbose {
			policy = tracer{next: policy, game: i}
		}

		out, err := autoplay.Play(eng, l, policy, 10*l.MaxTurns)
		if err != nil {
			fmt.Printf("game %d (seed %d): %v\n", i, gameSeed, err)
			results["error"]++
			continue
		}
		turns += l.Turn - 1
		key := string(out.Type)
		if out.Reason != "" {
			key += "/" + string(out.Reason)
		}
		results[key]++
		if verbose {
			fmt.Printf("game %d (seed %d): %s after %d turns\n\n", i, gameSeed, engine.Describe(*out), l.Turn-1)
		}
	}

	fmt.Printf("--- %d %s games, policy %s ---\n", games, d, policyName)
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-20s %5d  (%.1f%%)\n", k, results[k], 100*float64(results[k])/float64(games))
	}
	if played := games - results["error"]; played > 0 {
		fmt.Printf("average turns played: %.1f\n", float64(turns)/float64(played))
	}
	if results["error"] > 0 {
		os.Exit(1)
	}
}

type tracer struct {
	next autoplay.Policy
	game int
}

func (t tracer) Next(l *models.Ledger) autoplay.Move {
	m := t.next.Next(l)
	fmt.Printf("game %d turn %d: %s\n", t.game, l.Turn, m)
	return m
}

// geminiPlayer asks a Gemini model for each move and falls back to the
// heuristic when the reply cannot be used.
type geminiPlayer struct {
	ctx    context.Context
	model  *genai.GenerativeModel
	parser *command.Parser
	logger *slog.Logger
}

func (p *geminiPlayer) Next(l *models.Ledger) autoplay.Move {
	fallback := autoplay.Heuristic{}.Next(l)
	reply := getPlayerAction(p.ctx, p.model, l)
	c := p.parser.Parse(reply)

	var m autoplay.Move
	switch c.Kind {
	case command.Action:
		if !slices.Contains(engine.AvailableActions(l), c.Action) {
			p.logger.Info("player picked an unavailable action", "reply", reply)
			return fallback
		}
		m = autoplay.Move{Kind: autoplay.MoveAction, Action: c.Action, Args: c.Args}
	case command.Choose:
		if !engine.CanResolve(l, c.Arg(0)) {
			return fallback
		}
		m = autoplay.Move{Kind: autoplay.MoveChoose, Branch: c.Arg(0)}
	case command.EndTurn:
		if !engine.CanEndTurn(l) {
			return fallback
		}
		m = autoplay.Move{Kind: autoplay.MoveEndTurn}
	default:
		p.logger.Info("unusable player reply", "reply", reply)
		return fallback
	}
	return m
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, l *models.Ledger) string {
	var options []string
	if pc := l.PendingChoice; pc != nil {
		options = append(options,
			fmt.Sprintf("a (%s: %s)", pc.A.Label, pc.A.Effect),
			fmt.Sprintf("b (%s: %s)", pc.B.Label, pc.B.Effect))
	} else {
		for _, id := range engine.AvailableActions(l) {
			a, _ := engine.LookupAction(id)
			options = append(options, fmt.Sprintf("%s (%s, %s slot)", id, engine.FormatDelta(a.Effect), a.Slot))
		}
		if engine.CanEndTurn(l) {
			options = append(options, "end")
		}
	}

	var recent []string
	for _, e := range l.RecentLog(8) {
		recent = append(recent, e.Message)
	}

	prompt := fmt.Sprintf(`You are ruling a Bronze Age kingdom in 1177 BC. Keep stability and military above 0 and drive
collapse down to 0 before turn %d ends. Each turn you take one free action and one paid action, then end the turn.
Turn: %d of %d
Resources: grain %d, timber %d, bronze %d
Realm: military %d, stability %d, prestige %d, collapse %d

Recent log:
%s

Valid commands right now:
%s

Return ONLY the command, for example "harvest", "send_tribute egypt", "a" or "end".`,
		l.MaxTurns, l.Turn, l.MaxTurns,
		l.Resources.Grain, l.Resources.Timber, l.Resources.Bronze,
		l.Metrics.Military, l.Metrics.Stability, l.Metrics.Prestige, l.Metrics.Collapse,
		strings.Join(recent, "\n"),
		strings.Join(options, "\n"),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ""
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), "\"`")
}
