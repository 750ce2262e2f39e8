package chronicle

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/bronze/internal/models"
	"google.golang.org/api/option"
)

//go:embed prompts/narrate_turn.txt
var narrateTurnPrompt string

//go:embed prompts/summarize_chronicle.txt
var summarizeChroniclePrompt string

var (
	narrateTmpl   = template.Must(template.New("narrate_turn").Parse(narrateTurnPrompt))
	summarizeTmpl = template.Must(template.New("summarize_chronicle").Parse(summarizeChroniclePrompt))
)

// Once more than maxRecent entries accumulate, all but keepRecent are folded
// into the running summary.
const (
	maxRecent  = 8
	keepRecent = 3
)

var ErrEmptyResponse = errors.New("no content returned from Gemini")

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini narrates turns with a Gemini model, keeping a rolling chronicle so
// each entry reads as a continuation of the last.
type Gemini struct {
	client *genai.Client
	model  contentGenerator
	logger *slog.Logger

	mu      sync.Mutex
	summary string
	recent  []string
}

func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g := newGemini(client.GenerativeModel(model), logger)
	g.client = client
	return g, nil
}

func newGemini(model contentGenerator, logger *slog.Logger) *Gemini {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gemini{model: model, logger: logger.With("component", "chronicle")}
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Gemini) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.summary = ""
	g.recent = nil
}

func (g *Gemini) Narrate(ctx context.Context, s models.TurnSummary) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.recent) > maxRecent {
		if err := g.summarize(ctx); err != nil {
			g.logger.Warn("failed to summarize chronicle", "error", err)
		}
	}

	var buf bytes.Buffer
	data := struct {
		models.TurnSummary
		Chronicle string
		Recent    []string
	}{
		TurnSummary: s,
		Chronicle:   g.summary,
		Recent:      g.recent,
	}
	if err := narrateTmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	text, err := g.generate(ctx, buf.String())
	if err != nil {
		return "", fmt.Errorf("narrate turn %d: %w", s.Turn, err)
	}
	g.recent = append(g.recent, text)
	g.logger.Debug("turn narrated", "turn", s.Turn, "chars", len(text))
	return text, nil
}

func (g *Gemini) summarize(ctx context.Context) error {
	cut := len(g.recent) - keepRecent
	var buf bytes.Buffer
	data := struct {
		CurrentSummary string
		NewEntries     []string
	}{
		CurrentSummary: g.summary,
		NewEntries:     g.recent[:cut],
	}
	if err := summarizeTmpl.Execute(&buf, data); err != nil {
		return err
	}
	text, err := g.generate(ctx, buf.String())
	if err != nil {
		return err
	}
	g.summary = text
	g.recent = append([]string(nil), g.recent[cut:]...)
	return nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini: %T", resp.Candidates[0].Content.Parts[0])
	}
	out := strings.TrimSpace(string(text))
	out = strings.TrimPrefix(out, "```text")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
