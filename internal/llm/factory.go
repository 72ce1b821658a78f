package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/learnpath/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → timeout → retry → logging → base. It returns (nil, nil) for the
// offline provider.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderOffline:
		return nil, nil
	case ProviderMock:
		return NewMockProvider(), nil
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var p Provider = base
	if events != nil {
		p = WithLogging(p, events)
	}
	p = WithRetry(p, cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// NewProviderFromEnv is NewProvider with ConfigFromEnv.
func NewProviderFromEnv(ctx context.Context, events store.EventRepo) (Provider, error) {
	return NewProvider(ctx, ConfigFromEnv(), events)
}
