// Package exam holds the in-memory state machine for one exam sitting.
package exam

import (
	"context"
	"errors"

	"github.com/abhisek/mockexam/internal/questiongen"
)

// NoChoice marks a submission without a selected option.
const NoChoice = -1

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseIdle       Phase = iota // No batch loaded
	PhaseInProgress              // Serving questions
	PhaseComplete                // Every question answered and advanced past
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInProgress:
		return "in_progress"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyBatch       = errors.New("exam: cannot start with an empty batch")
	ErrNotInProgress    = errors.New("exam: no exam in progress")
	ErrMissingSelection = errors.New("exam: no option selected")
	ErrInvalidChoice    = errors.New("exam: choice out of range")
	ErrAlreadySubmitted = errors.New("exam: answer already submitted")
	ErrNotSubmitted     = errors.New("exam: answer not submitted yet")
)

// MissRecorder persists a question the user answered wrong.
type MissRecorder interface {
	RecordMiss(ctx context.Context, q questiongen.Question) error
}

// Outcome describes the result of a submission.
type Outcome struct {
	Correct      bool
	Choice       int
	CorrectIndex int
	Question     questiongen.Question
}

// Session is one user's exam sitting. It is not safe for concurrent use;
// callers serialize access per user.
type Session struct {
	questions []questiongen.Question
	index     int
	correct   int
	submitted bool
	choice    int
	outcome   *Outcome

	misses MissRecorder
}

// NewSession returns an idle session that reports wrong answers to misses.
// misses may be nil when nothing should be persisted.
func NewSession(misses MissRecorder) *Session {
	return &Session{misses: misses, choice: NoChoice}
}

// Phase reports the current state.
func (s *Session) Phase() Phase {
	switch {
	case len(s.questions) == 0:
		return PhaseIdle
	case s.index >= len(s.questions):
		return PhaseComplete
	default:
		return PhaseInProgress
	}
}

// Start replaces whatever the session held with a fresh sitting over
// questions. It is valid from any phase.
func (s *Session) Start(questions []questiongen.Question) error {
	if len(questions) == 0 {
		return ErrEmptyBatch
	}
	s.questions = append([]questiongen.Question(nil), questions...)
	s.index = 0
	s.correct = 0
	s.clearSubmission()
	return nil
}

// Submit grades choice against the current question. A wrong answer is
// recorded through the session's MissRecorder before the submission takes
// effect; if recording fails the session is left unchanged and the error is
// returned so the user can submit again.
func (s *Session) Submit(ctx context.Context, choice int) (Outcome, error) {
	if s.Phase() != PhaseInProgress {
		return Outcome{}, ErrNotInProgress
	}
	if s.submitted {
		return *s.outcome, ErrAlreadySubmitted
	}
	if choice == NoChoice {
		return Outcome{}, ErrMissingSelection
	}

	q := s.questions[s.index]
	if choice < 0 || choice >= len(q.Options) {
		return Outcome{}, ErrInvalidChoice
	}

	out := Outcome{
		Correct:      choice == q.CorrectIndex,
		Choice:       choice,
		CorrectIndex: q.CorrectIndex,
		Question:     q,
	}

	if !out.Correct && s.misses != nil {
		if err := s.misses.RecordMiss(ctx, q); err != nil {
			return Outcome{}, err
		}
	}

	if out.Correct {
		s.correct++
	}
	s.submitted = true
	s.choice = choice
	s.outcome = &out
	return out, nil
}

// Advance moves past the submitted question. Advancing past the last
// question completes the session.
func (s *Session) Advance() error {
	if s.Phase() != PhaseInProgress {
		return ErrNotInProgress
	}
	if !s.submitted {
		return ErrNotSubmitted
	}
	s.index++
	s.clearSubmission()
	return nil
}

// Reset returns the session to idle, discarding the batch.
func (s *Session) Reset() {
	s.questions = nil
	s.index = 0
	s.correct = 0
	s.clearSubmission()
}

func (s *Session) clearSubmission() {
	s.submitted = false
	s.choice = NoChoice
	s.outcome = nil
}

// View is a read-only snapshot of a session.
type View struct {
	Phase     Phase
	Index     int
	Total     int
	Correct   int
	Submitted bool

	// Current is the question being answered, nil unless in progress.
	Current *questiongen.Question

	// Outcome is set once the current question has been submitted.
	Outcome *Outcome
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	v := View{
		Phase:     s.Phase(),
		Index:     s.index,
		Total:     len(s.questions),
		Correct:   s.correct,
		Submitted: s.submitted,
	}
	if v.Phase == PhaseInProgress {
		q := s.questions[s.index]
		v.Current = &q
	}
	if s.outcome != nil {
		out := *s.outcome
		v.Outcome = &out
	}
	return v
}
