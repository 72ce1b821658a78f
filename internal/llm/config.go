package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
	ProviderOffline    = "offline"
)

// Config selects and configures the LLM backend.
type Config struct {
	// Provider is one of the Provider* constants. "offline" disables
	// generation and callers fall back to their built-in text.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the built-in defaults. Without a key the provider is
// offline.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOffline,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads LEARNPATH_* variables over the defaults. When
// LEARNPATH_LLM_PROVIDER is unset it falls back to DiscoverConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	provider := os.Getenv("LEARNPATH_LLM_PROVIDER")
	if provider == "" {
		if found, ok := DiscoverConfig(); ok {
			cfg = found
		}
	} else {
		cfg.Provider = provider
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"LEARNPATH_ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"LEARNPATH_ANTHROPIC_MODEL", &cfg.Anthropic.Model},
		{"LEARNPATH_OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"LEARNPATH_OPENAI_MODEL", &cfg.OpenAI.Model},
		{"LEARNPATH_OPENAI_BASE_URL", &cfg.OpenAI.BaseURL},
		{"LEARNPATH_GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"LEARNPATH_GEMINI_MODEL", &cfg.Gemini.Model},
		{"LEARNPATH_OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
		{"LEARNPATH_OPENROUTER_MODEL", &cfg.OpenRouter.Model},
		{"LEARNPATH_OPENROUTER_BASE_URL", &cfg.OpenRouter.BaseURL},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	if t := os.Getenv("LEARNPATH_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// DiscoverConfig probes the vendors' standard key variables, in order
// Gemini, OpenAI, Anthropic, OpenRouter, and selects the first one set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "LEARNPATH_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "LEARNPATH_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "LEARNPATH_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "LEARNPATH_OPENROUTER_API_KEY"
	case ProviderMock, ProviderOffline:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
