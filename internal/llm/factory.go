package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/mockexam/internal/store"
)

// NewFactory returns a Factory that builds the configured provider for a
// given API key. When eventRepo is non-nil every provider is wrapped with
// event logging.
func NewFactory(cfg Config, eventRepo store.EventRepo) (Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return func(ctx context.Context, apiKey string) (Provider, error) {
		var base Provider
		var err error

		switch cfg.Provider {
		case "gemini":
			gc := cfg.Gemini
			gc.APIKey = apiKey
			base, err = NewGeminiProvider(ctx, gc)
		case "openai":
			oc := cfg.OpenAI
			oc.APIKey = apiKey
			base, err = NewOpenAIProvider(oc)
		case "anthropic":
			ac := cfg.Anthropic
			ac.APIKey = apiKey
			base, err = NewAnthropicProvider(ac)
		case "mock":
			base = cfg.Mock
		}
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
		}

		if eventRepo == nil {
			return base, nil
		}
		return WithLogging(base, eventRepo), nil
	}, nil
}
