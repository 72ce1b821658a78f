package roadmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/learnpath/internal/llm"
)

// Request carries the quiz signals a roadmap is generated from.
type Request struct {
	Score  int
	Level  string
	Weak   []string // topics answered wrong
	Strong []string // topics answered right
}

// Generator produces free-form roadmap text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config tunes LLM roadmap generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0.7}
}

// LLMGenerator asks an LLM for a roadmap.
type LLMGenerator struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMGenerator returns a Generator backed by provider.
func NewLLMGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, cfg: cfg}
}

type roadmapOutput struct {
	Roadmap string `json:"roadmap"`
}

func (g *LLMGenerator) Generate(ctx context.Context, req Request) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeRoadmap)

	r := llm.UserPrompt(systemPrompt, buildPrompt(req), Schema, g.cfg.MaxTokens)
	r.Temperature = g.cfg.Temperature

	resp, err := g.provider.Generate(ctx, r)
	if err != nil {
		return "", fmt.Errorf("roadmap generation: %w", err)
	}
	var out roadmapOutput
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("parse roadmap response: %w", err)
	}
	if strings.TrimSpace(out.Roadmap) == "" {
		return "", fmt.Errorf("roadmap generation: empty roadmap")
	}
	return out.Roadmap, nil
}

// Schema is the structured output requested from the LLM.
var Schema = &llm.Schema{
	Name:        "learning-roadmap",
	Description: "A personalized learning roadmap as line-oriented text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"roadmap": map[string]any{
				"type":        "string",
				"description": "Roadmap text with 'Weak Areas' and 'Strong Areas' headers, numbered topics and '-' bullets",
			},
		},
		"required":             []any{"roadmap"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are an expert tutor that builds personalized learning plans for programmers learning Python and machine learning.`

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The learner scored %d/10 on a placement quiz and is at %s level.\n", req.Score, req.Level)

	b.WriteString("\nTopics answered incorrectly:\n")
	writeTopics(&b, req.Weak)
	b.WriteString("\nTopics answered correctly:\n")
	writeTopics(&b, req.Strong)

	b.WriteString(`
Instructions:
Write a focused learning roadmap.
1. Start with a "Weak Areas" header. Under it, list each weak topic as a numbered item with 2-3 "-" bullets suggesting how to study it: concrete exercises, search terms, or course topics.
2. Then a "Strong Areas" header. Briefly reinforce each strong topic as a numbered item with one or two "-" bullets for going deeper.
3. Keep each bullet to one short actionable sentence.
4. Plain text only. No markdown tables, no code blocks.`)
	return b.String()
}

func writeTopics(b *strings.Builder, topics []string) {
	if len(topics) == 0 {
		b.WriteString("None\n")
		return
	}
	for _, t := range topics {
		fmt.Fprintf(b, "- %s\n", t)
	}
}

// OfflineText is the deterministic roadmap used when no generator is
// configured or generation fails.
func OfflineText(req Request) string {
	var b strings.Builder
	b.WriteString("Weak Areas\n")
	if len(req.Weak) == 0 {
		b.WriteString("1. Review incorrect topics\n")
		b.WriteString("- Watch 1-2 short tutorials per topic\n")
		b.WriteString("- Complete a small exercise for each\n")
	}
	for i, t := range req.Weak {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
		b.WriteString("- Watch 1-2 short tutorials on this topic\n")
		b.WriteString("- Complete a small exercise\n")
	}
	b.WriteString("Strong Areas\n")
	b.WriteString("1. Reinforce strengths\n")
	b.WriteString("- Try a slightly harder problem\n")
	b.WriteString("- Teach the concept to someone or write notes\n")
	return b.String()
}

// Build generates roadmap text with gen and normalizes it into lines. When
// gen is nil or fails, the offline text is used and offline is true; the
// generator error, if any, is returned alongside for logging.
func Build(ctx context.Context, gen Generator, req Request) (lines []string, offline bool, genErr error) {
	if gen != nil {
		text, err := gen.Generate(ctx, req)
		if err == nil {
			return Normalize(text), false, nil
		}
		genErr = err
	}
	return Normalize(OfflineText(req)), true, genErr
}
