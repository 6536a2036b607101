package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the text-generation service used to write trivia questions.
type Provider interface {
	// Generate sends a prompt and returns the model's reply. With a
	// Schema set the provider asks for structured output and validates
	// the reply against it; otherwise Content is the raw reply text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is an optional system instruction.
	System string

	// Messages is the conversation. Question generation is single-turn.
	Messages []Message

	// Schema, when set, requests native structured output.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero leaves the
	// provider default in place.
	Temperature float64
}

// UserRequest builds a single-turn request without a schema.
func UserRequest(prompt string, maxTokens int, temperature float64) Request {
	return Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
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

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema (tool or schema name for the provider
	// APIs, cache key for validation). Kebab-case.
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the reply. Schema-validated JSON when the request carried
	// a Schema, the raw reply text otherwise.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is normalized to StopEnd or StopMaxTokens.
	StopReason string
}

// Text returns the reply as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopRefused   = "refused"
)

// finishReply turns a provider reply into a Response. A refused reply is
// rejected outright. With a Schema set, a truncated reply fails with
// ErrMaxTokensExceeded and a complete one is validated against the schema.
func finishReply(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if stop == StopRefused {
		return nil, &ErrRequestRejected{Err: fmt.Errorf("model %s declined to write the reply", model)}
	}
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through as direct IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
