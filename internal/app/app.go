// Package app wires the quota guard, question generator, exam session, and
// review notes into the user-facing actions.
package app

import (
	"context"
	"log"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/quota"
	"github.com/abhisek/mockexam/internal/review"
	"github.com/abhisek/mockexam/internal/store"
)

// BatchGenerator produces question batches from a credential pool.
type BatchGenerator interface {
	Generate(ctx context.Context, credentials []string, count int) ([]questiongen.Question, error)
}

// Options configures a Service.
type Options struct {
	// Credentials is the pool of generation-service API keys.
	Credentials []string

	// DailyLimit is the per-user question quota per day.
	DailyLimit int

	// BatchSize is how many questions to request per batch.
	BatchSize int
}

// Service implements the user-facing actions.
type Service struct {
	guard   *quota.Guard
	gen     BatchGenerator
	reviews *review.Manager
	opts    Options
}

// New creates a Service.
func New(guard *quota.Guard, gen BatchGenerator, reviews *review.Manager, opts Options) *Service {
	if opts.DailyLimit <= 0 {
		opts.DailyLimit = quota.DefaultDailyLimit
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	return &Service{guard: guard, gen: gen, reviews: reviews, opts: opts}
}

// NewSession returns an idle session whose wrong answers land in userID's
// review notes.
func (s *Service) NewSession(userID string) *exam.Session {
	return exam.NewSession(s.reviews.For(userID))
}

// RequestNewBatch generates a fresh batch and starts sess on it. The quota
// is checked first and charged with the number of questions actually
// returned, only after generation succeeded. On any error sess keeps its
// previous state.
func (s *Service) RequestNewBatch(ctx context.Context, userID string, sess *exam.Session) (int, error) {
	if _, err := s.guard.Check(ctx, userID, s.opts.DailyLimit); err != nil {
		return 0, err
	}

	batch, err := s.gen.Generate(ctx, s.opts.Credentials, s.opts.BatchSize)
	if err != nil {
		log.Printf("[App] batch for %s failed: %v", userID, err)
		return 0, err
	}

	if err := s.guard.Consume(ctx, userID, len(batch)); err != nil {
		return 0, err
	}

	if err := sess.Start(batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// SubmitAnswer grades choice for the current question.
func (s *Service) SubmitAnswer(ctx context.Context, sess *exam.Session, choice int) (exam.Outcome, error) {
	return sess.Submit(ctx, choice)
}

// AdvanceQuestion moves to the next question.
func (s *Service) AdvanceQuestion(sess *exam.Session) error {
	return sess.Advance()
}

// GoHome abandons the sitting and returns the session to idle.
func (s *Service) GoHome(sess *exam.Session) {
	sess.Reset()
}

// ViewReviewNotes lists userID's review notes, newest first.
func (s *Service) ViewReviewNotes(ctx context.Context, userID string) ([]store.ReviewNote, error) {
	return s.reviews.List(ctx, userID)
}

// DeleteReviewNote removes every note of userID with the given question
// text and reports how many went.
func (s *Service) DeleteReviewNote(ctx context.Context, userID, question string) (int64, error) {
	return s.reviews.Delete(ctx, userID, question)
}

// Usage reports today's consumed count and the daily limit.
func (s *Service) Usage(ctx context.Context, userID string) (count, limit int, err error) {
	_, count, err = s.guard.IsAllowed(ctx, userID, s.opts.DailyLimit)
	return count, s.opts.DailyLimit, err
}
