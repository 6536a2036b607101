package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thinxi/thinxi-admin/internal/store"
)

// NewProvider builds the configured Provider wrapped as
// caller → retry → logging → base. The mock skips the retry layer.
// eventRepo may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	base, err := newBaseProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logged := WithLogging(base, eventRepo, cfg.Provider, log)
	if cfg.Provider == ProviderMock {
		return logged, nil
	}
	return WithRetry(logged, cfg.Retry, log), nil
}

func newBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewTriviaMock(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return base, nil
}
