// Package quota bounds how many generated questions a user may consume per
// calendar day.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/mockexam/internal/store"
)

// DefaultDailyLimit is the number of questions a user may consume per day.
const DefaultDailyLimit = 20

// dayLayout formats the calendar-day key of a usage record.
const dayLayout = "2006-01-02"

// ErrDailyQuotaReached is matched by *LimitError via errors.Is.
var ErrDailyQuotaReached = errors.New("daily quota reached")

// LimitError is returned when a user has no quota left today.
type LimitError struct {
	Count int
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("daily quota reached: %d / %d questions used today", e.Count, e.Limit)
}

func (e *LimitError) Is(target error) bool { return target == ErrDailyQuotaReached }

// Guard checks and charges daily usage. The quota is checked before a batch
// is generated and charged only after it succeeds, so upstream failures cost
// the user nothing.
type Guard struct {
	repo store.UsageRepo
	now  func() time.Time
}

// NewGuard creates a Guard backed by repo.
func NewGuard(repo store.UsageRepo) *Guard {
	return &Guard{repo: repo, now: time.Now}
}

// WithClock returns a copy of g that reads the current time from now.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	cp := *g
	cp.now = now
	return &cp
}

// Today returns the usage-record day key for the current local date.
func (g *Guard) Today() string {
	return g.now().Format(dayLayout)
}

// IsAllowed reports whether userID is below limit today, along with the
// current count.
func (g *Guard) IsAllowed(ctx context.Context, userID string, limit int) (bool, int, error) {
	count, err := g.repo.Get(ctx, userID, g.Today())
	if err != nil {
		return false, 0, err
	}
	return count < limit, count, nil
}

// Check is IsAllowed folded into an error: it returns *LimitError when the
// user is blocked.
func (g *Guard) Check(ctx context.Context, userID string, limit int) (int, error) {
	allowed, count, err := g.IsAllowed(ctx, userID, limit)
	if err != nil {
		return count, err
	}
	if !allowed {
		return count, &LimitError{Count: count, Limit: limit}
	}
	return count, nil
}

// Consume charges amount questions to userID for today.
func (g *Guard) Consume(ctx context.Context, userID string, amount int) error {
	return g.repo.Increment(ctx, userID, g.Today(), amount)
}
