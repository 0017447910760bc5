package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
}

// UsageRepo tracks how many questions each user consumed per calendar day.
type UsageRepo interface {
	// Get returns the count for (userID, day), or 0 when no record exists.
	Get(ctx context.Context, userID, day string) (int, error)

	// Increment adds amount to the count for (userID, day), creating the
	// record if needed. Concurrent increments for the same key never lose
	// updates.
	Increment(ctx context.Context, userID, day string, amount int) error
}

// ReviewNote is a persisted copy of a question the user answered wrong.
type ReviewNote struct {
	ID           int
	UserID       string
	Category     string
	Question     string
	Options      []string
	CorrectIndex int
	Explanation  string
	CreatedAt    time.Time
}

// ReviewRepo manages review notes.
type ReviewRepo interface {
	// Append inserts a note. CreatedAt is set by the store.
	Append(ctx context.Context, note ReviewNote) error

	// List returns the user's notes, newest first.
	List(ctx context.Context, userID string) ([]ReviewNote, error)

	// Delete removes every note of userID whose question text matches
	// exactly. It reports how many rows were removed; zero is not an error.
	Delete(ctx context.Context, userID, question string) (int64, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Credential   int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	CreatedAt time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}
