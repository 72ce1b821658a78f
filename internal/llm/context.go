package llm

import "context"

type purposeKey struct{}

// Purpose labels used by the learning workflows.
const (
	PurposeRoadmap         = "roadmap"
	PurposeTaskDescription = "task-description"
)

// WithPurpose tags ctx with a purpose label recorded on LLM events.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose label on ctx, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}
