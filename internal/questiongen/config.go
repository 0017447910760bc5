package questiongen

import "time"

// Config controls the behavior of the Generator.
type Config struct {
	// ListTimeout bounds the model-listing call for one credential.
	ListTimeout time.Duration

	// GenerateTimeout bounds the generation call for one credential. A full
	// batch is a single long response, so this is generous.
	GenerateTimeout time.Duration

	// MaxTokens is the token budget for the response. Zero leaves the
	// provider default.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		ListTimeout:     5 * time.Second,
		GenerateTimeout: 180 * time.Second,
		Temperature:     0.7,
	}
}
