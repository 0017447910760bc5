package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction. One Provider is bound
// to one API credential; the model is chosen per request so that callers can
// pick from whatever ListModels reports for that credential.
type Provider interface {
	// Name returns the provider family, e.g. "gemini".
	Name() string

	// ListModels returns the models visible to this credential.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Generate sends a prompt to the LLM. When req.Schema is set and the
	// provider supports native structured output for it, the response is
	// constrained to that schema; callers still validate what comes back.
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Factory builds a Provider for a single API credential.
type Factory func(ctx context.Context, apiKey string) (Provider, error)

// ModelInfo describes a model reported by ListModels.
type ModelInfo struct {
	ID          string
	DisplayName string

	// Generative is true when the model can serve Generate requests.
	Generative bool

	// Fast is true for the provider's low-latency, low-cost tier.
	Fast bool
}

// Request describes what to send to the LLM.
type Request struct {
	// Model is the model identifier, usually a ModelInfo.ID.
	Model string

	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Question generation sends a
	// single user message.
	Messages []Message

	// Schema is the JSON Schema the response should conform to.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	// Zero leaves the provider default in place where the API allows it.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, e.g. "exam-question". Compiled schemas
	// are cached by name.
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the raw text the model produced. It is not guaranteed to be
	// valid JSON.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as a string.
func (r *Response) Text() string {
	return string(r.Content)
}
