package questiongen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCredentials is returned when Generate is called without any
	// API credentials.
	ErrNoCredentials = errors.New("no API credentials configured")

	// ErrMalformedResponse means no JSON array could be recovered from the
	// model output, or the array held no usable question.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrNoCapableModel means the credential sees no model that can
	// generate content.
	ErrNoCapableModel = errors.New("no generation-capable model available")
)

// Kind classifies why a single credential attempt failed.
type Kind int

const (
	// KindTransport covers network failures, timeouts, and non-quota
	// upstream errors.
	KindTransport Kind = iota
	// KindUpstreamQuota is an upstream rate limit or exhausted quota (429).
	KindUpstreamQuota
	// KindNoCapableModel means model listing succeeded but offered nothing
	// usable.
	KindNoCapableModel
	// KindMalformedResponse means the response yielded zero valid questions.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUpstreamQuota:
		return "upstream quota"
	case KindNoCapableModel:
		return "no capable model"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AttemptError records the failure of one credential in the fold.
type AttemptError struct {
	// Slot is the 1-based position of the credential in the shuffled order.
	// The key itself is never carried in errors.
	Slot int
	Kind Kind
	Err  error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("key #%d: %s: %v", e.Slot, e.Kind, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// ExhaustedError is returned when every credential failed. No partial batch
// accompanies it.
type ExhaustedError struct {
	Attempts []*AttemptError
}

// Last returns the final attempt, or nil when there were none.
func (e *ExhaustedError) Last() *AttemptError {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

func (e *ExhaustedError) Error() string {
	last := e.Last()
	if last == nil {
		return "question generation failed"
	}
	return fmt.Sprintf("question generation failed after %d attempt(s): %v", len(e.Attempts), last)
}

// Unwrap yields the last underlying error so errors.Is/As see the final
// reason.
func (e *ExhaustedError) Unwrap() error {
	if last := e.Last(); last != nil {
		return last
	}
	return nil
}

// Summary lists every attempt on one line, for diagnostics.
func (e *ExhaustedError) Summary() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return strings.Join(parts, "; ")
}
