package llm

import "fmt"

// ErrRateLimit reports a 429 or a quota-exhausted reply. It is never retried
// here; callers move on to another credential.
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrEmptyResponse means the provider answered without any text.
type ErrEmptyResponse struct {
	Provider string
}

func (e *ErrEmptyResponse) Error() string {
	return e.Provider + ": response carried no text"
}

// ErrProviderUnavailable indicates the provider is down, unreachable, or
// rejected the request for a reason other than rate limiting.
type ErrProviderUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// SchemaError reports a value that does not satisfy a Schema.
type SchemaError struct {
	Schema string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v", e.Schema, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
