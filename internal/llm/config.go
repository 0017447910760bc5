package llm

import "fmt"

// Config holds LLM provider configuration. API keys are not part of it:
// they are supplied per call to the Factory so that a pool of credentials
// can share one Config.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "mock"
	Provider string

	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig

	// Mock serves every credential when Provider is "mock".
	Mock *MockProvider
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	BaseURL string // Optional. Override for tests or proxies.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string // Optional.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
	}
}

// Validate checks that the selected provider is known.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic":
	case "mock":
		if c.Mock == nil {
			return fmt.Errorf("mock provider requires a MockProvider")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
