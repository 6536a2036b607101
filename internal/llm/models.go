package llm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// ModelInfo describes a model the configured key can use.
type ModelInfo struct {
	ID          string
	DisplayName string
	// Actions lists supported generation methods when the API reports them
	// (Gemini: "generateContent", "countTokens", ...).
	Actions          []string
	InputTokenLimit  int
	OutputTokenLimit int
}

// CanGenerate reports whether the model supports text generation. Models
// without reported actions are assumed to.
func (m ModelInfo) CanGenerate() bool {
	return len(m.Actions) == 0 || slices.Contains(m.Actions, "generateContent")
}

// ModelLister lists the models available to an API key.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// NewModelLister returns a ModelLister for the configured provider.
func NewModelLister(ctx context.Context, cfg Config) (ModelLister, error) {
	p, err := newBaseProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	switch v := p.(type) {
	case *OpenRouterProvider:
		return v.OpenAIProvider, nil
	case ModelLister:
		return v, nil
	default:
		return nil, fmt.Errorf("provider %q cannot list models", cfg.Provider)
	}
}

func (p *GeminiProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var out []ModelInfo
	for m, err := range p.client.Models.All(ctx) {
		if err != nil {
			return nil, mapGeminiError(err)
		}
		out = append(out, ModelInfo{
			ID:               strings.TrimPrefix(m.Name, "models/"),
			DisplayName:      m.DisplayName,
			Actions:          m.SupportedActions,
			InputTokenLimit:  int(m.InputTokenLimit),
			OutputTokenLimit: int(m.OutputTokenLimit),
		})
	}
	return out, nil
}

func (p *OpenAIProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	out := make([]ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		out = append(out, ModelInfo{ID: m.ID, DisplayName: m.ID})
	}
	return out, nil
}

func (p *AnthropicProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var out []ModelInfo
	iter := p.client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
	for iter.Next() {
		m := iter.Current()
		out = append(out, ModelInfo{ID: m.ID, DisplayName: m.DisplayName})
	}
	if err := iter.Err(); err != nil {
		return nil, mapAnthropicError(err)
	}
	return out, nil
}

// ListModels returns the single mock model.
func (m *MockProvider) ListModels(context.Context) ([]ModelInfo, error) {
	return []ModelInfo{{ID: "mock", DisplayName: "Mock"}}, nil
}

