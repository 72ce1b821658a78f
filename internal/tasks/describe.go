package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/learnpath/internal/llm"
)

// DescriptionRequest is everything known about the learner when a task is
// described.
type DescriptionRequest struct {
	UserName   string
	Level      string
	Weak       []string
	Strong     []string
	Roadmap    []string // normalized roadmap lines
	TaskNumber int      // expected number; the store allocates the real one
	Previous   string   // description of the previous task, if any
}

// DescriptionGenerator writes the task description text.
type DescriptionGenerator interface {
	Describe(ctx context.Context, req DescriptionRequest) (string, error)
}

// LLMDescriber asks an LLM for a structured task and renders it as text.
type LLMDescriber struct {
	provider llm.Provider
	cfg      Config
}

func NewLLMDescriber(provider llm.Provider, cfg Config) *LLMDescriber {
	return &LLMDescriber{provider: provider, cfg: cfg}
}

type descriptionOutput struct {
	Title         string   `json:"title"`
	Objectives    []string `json:"objectives"`
	Instructions  []string `json:"instructions"`
	Resources     []string `json:"resources"`
	WhyItMatters  string   `json:"why_it_matters"`
	EstimatedTime string   `json:"estimated_time"`
}

func (d *LLMDescriber) Describe(ctx context.Context, req DescriptionRequest) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTaskDescription)

	r := llm.UserPrompt(describeSystemPrompt, buildDescribePrompt(req), DescriptionSchema, d.cfg.MaxTokens)
	r.Temperature = d.cfg.Temperature

	resp, err := d.provider.Generate(ctx, r)
	if err != nil {
		return "", fmt.Errorf("task description generation: %w", err)
	}
	var out descriptionOutput
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("parse task description: %w", err)
	}
	return out.render(), nil
}

func (o descriptionOutput) render() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(o.Title))
	b.WriteString("\n")
	writeSection(&b, "Learning Objectives", o.Objectives)
	writeSection(&b, "Instructions", o.Instructions)
	writeSection(&b, "Resources", o.Resources)
	if o.WhyItMatters != "" {
		writeSection(&b, "Why this matters", []string{o.WhyItMatters})
	}
	if o.EstimatedTime != "" {
		fmt.Fprintf(&b, "Estimated time: %s", o.EstimatedTime)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(it))
	}
}

// DescriptionSchema is the structured output requested from the LLM.
var DescriptionSchema = &llm.Schema{
	Name:        "task-description",
	Description: "A practical, hands-on learning task",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "One-line task title",
			},
			"objectives": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
			"instructions": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
			"resources": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"why_it_matters": map[string]any{"type": "string"},
			"estimated_time": map[string]any{"type": "string"},
		},
		"required":             []any{"title", "objectives", "instructions", "resources", "why_it_matters", "estimated_time"},
		"additionalProperties": false,
	},
}

const describeSystemPrompt = `You are an expert learning coach that creates personalized, practical learning tasks.`

func buildDescribePrompt(req DescriptionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate learning task #%d for %s, who is at %s level.\n", req.TaskNumber, req.UserName, req.Level)

	if len(req.Weak) > 0 {
		fmt.Fprintf(&b, "\nWeak topics: %s\n", strings.Join(req.Weak, "; "))
	}
	if len(req.Strong) > 0 {
		fmt.Fprintf(&b, "Strong topics: %s\n", strings.Join(req.Strong, "; "))
	}
	if len(req.Roadmap) > 0 {
		b.WriteString("\nLearner's roadmap:\n")
		b.WriteString(strings.Join(req.Roadmap, "\n"))
		b.WriteString("\n")
	}

	if req.Previous != "" {
		fmt.Fprintf(&b, "\nPrevious task:\n%s\n\nGenerate a follow-up task that builds on the previous task and continues the learning journey.\n", req.Previous)
	} else {
		b.WriteString("\nGenerate an initial task that starts the learning journey from the roadmap.\n")
	}

	b.WriteString(`
Requirements:
- Practical and hands-on
- Specific learning objectives and clear instructions
- Suggest resources or tools if needed
- Achievable within 3-4 days
- Briefly explain why the task matters for their learning`)
	return b.String()
}

// roadmapExcerptLines is how much of the roadmap the offline text quotes.
const roadmapExcerptLines = 6

// OfflineDescription is the deterministic description used when no
// generator is configured or generation fails.
func OfflineDescription(req DescriptionRequest) string {
	intro := "Initial task"
	if req.TaskNumber > 1 {
		intro = "Follow-up task building on previous work"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s for %s at %s level.\n", intro, req.UserName, req.Level)
	if excerpt := roadmapExcerpt(req.Roadmap); len(excerpt) > 0 {
		fmt.Fprintf(&b, "Roadmap focus (excerpt):\n%s\n", strings.Join(excerpt, "\n"))
	}
	if req.Previous != "" {
		fmt.Fprintf(&b, "\nPrevious Task: %s\n", firstLine(req.Previous))
	}
	b.WriteString(`Learning Objectives:
- Practice core concepts from your roadmap
- Produce a small, tangible deliverable
Instructions:
- Pick one weak area from your roadmap and build a simple example
- Document what you learned in a short README
Why this matters:
- Consolidates fundamentals and prepares you for the next task
Estimated time: 2-4 hours`)
	return b.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// roadmapExcerpt returns the first non-blank roadmap lines.
func roadmapExcerpt(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
		if len(out) == roadmapExcerptLines {
			break
		}
	}
	return out
}
