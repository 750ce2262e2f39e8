package chronicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/bronze/internal/models"
)

type fakeModel struct {
	prompts []string
	reply   func(n int) []genai.Part
	err     error
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.prompts = append(f.prompts, string(parts[0].(genai.Text)))
	if f.err != nil {
		return nil, f.err
	}
	out := f.reply(len(f.prompts))
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: out}}},
	}, nil
}

func textReply(n int) []genai.Part {
	return []genai.Part{genai.Text(fmt.Sprintf("```\nEntry %d.\n```", n))}
}

func summary() models.TurnSummary {
	return models.TurnSummary{
		Turn:    4,
		Actions: []models.ActionRecord{{Name: "Harvest", Effects: "+15 Grain, +10 Bronze"}},
		Events:  []string{"Drought: -10 Grain, -5 Stability, +2 Collapse"},
		Income:  []string{"Granary: +3 Grain"},
		Drift:   []string{"Collapse: +3", "Stability: -2"},
	}
}

func TestPlainNarrate(t *testing.T) {
	got, err := Plain{}.Narrate(context.Background(), summary())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Turn 4.", "Harvest", "Drought", "Granary: +3 Grain", "Collapse: +3"} {
		if !strings.Contains(got, want) {
			t.Errorf("narration %q missing %q", got, want)
		}
	}
	quiet, _ := Plain{}.Narrate(context.Background(), models.TurnSummary{Turn: 2})
	if quiet != "Turn 2. A quiet season." {
		t.Errorf("quiet turn = %q", quiet)
	}
}

func TestGeminiNarratePrompt(t *testing.T) {
	fake := &fakeModel{reply: textReply}
	g := newGemini(fake, nil)
	got, err := g.Narrate(context.Background(), summary())
	if err != nil {
		t.Fatal(err)
	}
	if got != "Entry 1." {
		t.Errorf("Narrate = %q, want fences trimmed", got)
	}
	prompt := fake.prompts[0]
	for _, want := range []string{"turn 4", "- Harvest (+15 Grain, +10 Bronze)", "- Drought", "- Granary: +3 Grain", "- Stability: -2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "chronicle so far") {
		t.Error("first prompt should have no running chronicle")
	}
}

func TestGeminiFoldsOldEntries(t *testing.T) {
	fake := &fakeModel{reply: textReply}
	g := newGemini(fake, nil)
	ctx := context.Background()
	for i := 0; i < maxRecent+2; i++ {
		if _, err := g.Narrate(ctx, summary()); err != nil {
			t.Fatal(err)
		}
	}
	if g.summary == "" {
		t.Fatal("expected a running summary")
	}
	if len(g.recent) != keepRecent+1 {
		t.Errorf("recent = %d entries, want %d", len(g.recent), keepRecent+1)
	}
	last := fake.prompts[len(fake.prompts)-1]
	if !strings.Contains(last, "chronicle so far") {
		t.Error("prompt after folding should carry the running chronicle")
	}
}

func TestGeminiErrors(t *testing.T) {
	boom := errors.New("quota")
	g := newGemini(&fakeModel{err: boom}, nil)
	if _, err := g.Narrate(context.Background(), summary()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped quota error", err)
	}

	empty := newGemini(&fakeModel{reply: func(int) []genai.Part { return nil }}, nil)
	if _, err := empty.Narrate(context.Background(), summary()); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGeminiResetForgetsChronicle(t *testing.T) {
	fake := &fakeModel{reply: textReply}
	g := newGemini(fake, nil)
	ctx := context.Background()
	for i := 0; i < maxRecent+2; i++ {
		if _, err := g.Narrate(ctx, summary()); err != nil {
			t.Fatal(err)
		}
	}
	g.Reset()
	if _, err := g.Narrate(ctx, summary()); err != nil {
		t.Fatal(err)
	}
	last := fake.prompts[len(fake.prompts)-1]
	if strings.Contains(last, "chronicle so far") || strings.Contains(last, "Recent entries") {
		t.Errorf("prompt after Reset still carries the old reign:\n%s", last)
	}
}
