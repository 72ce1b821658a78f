package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates text or structured JSON from a prompt.
type Provider interface {
	// Generate sends req to the model. When req.Schema is set the provider
	// asks for JSON matching it and validates the result before returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and output constraints.
	System string

	// Messages is the conversation so far. Roadmap and task prompts are
	// single-turn, so this is usually one user message.
	Messages []Message

	// Schema, when set, requests structured output. When nil, Content in
	// the response is the raw model text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema the response must conform to.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "learning-roadmap".
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output for one request.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage reports token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Decode unmarshals structured Content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}
