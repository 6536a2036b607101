package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterModels maps short names to OpenRouter model slugs.
var openRouterModels = map[string]string{
	"gemini-flash": "google/gemini-2.0-flash-001",
	"claude-haiku": "anthropic/claude-3.5-haiku",
	"gpt-4o-mini":  "openai/gpt-4o-mini",
}

// openRouterHeaders identify the app on OpenRouter's usage dashboards.
var openRouterHeaders = http.Header{
	"HTTP-Referer": {"https://github.com/thinxi/thinxi-admin"},
	"X-Title":      {"thinxi-admin"},
}

// OpenRouterProvider serves any OpenRouter model through its
// chat-completions API.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	model := resolveModel(cfg.Model, openRouterModels)
	return &OpenRouterProvider{
		OpenAIProvider: newChatProvider(cfg.APIKey, baseURL, model, openRouterHeaders),
	}, nil
}
