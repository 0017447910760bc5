// Package review keeps each user's list of missed questions.
package review

import (
	"context"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/store"
)

// Manager records and serves review notes.
type Manager struct {
	repo store.ReviewRepo
}

// NewManager creates a Manager backed by repo.
func NewManager(repo store.ReviewRepo) *Manager {
	return &Manager{repo: repo}
}

// RecordMiss stores q as a review note for userID.
func (m *Manager) RecordMiss(ctx context.Context, userID string, q questiongen.Question) error {
	return m.repo.Append(ctx, store.ReviewNote{
		UserID:       userID,
		Category:     q.Category,
		Question:     q.Prompt,
		Options:      append([]string(nil), q.Options...),
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	})
}

// List returns userID's notes, newest first.
func (m *Manager) List(ctx context.Context, userID string) ([]store.ReviewNote, error) {
	return m.repo.List(ctx, userID)
}

// Delete marks a note as reviewed by removing it. Notes are keyed by their
// question text, so every note of userID with the same text goes at once.
func (m *Manager) Delete(ctx context.Context, userID, question string) (int64, error) {
	return m.repo.Delete(ctx, userID, question)
}

// For binds the manager to userID so a session can report misses.
func (m *Manager) For(userID string) exam.MissRecorder {
	return userRecorder{m: m, userID: userID}
}

type userRecorder struct {
	m      *Manager
	userID string
}

func (r userRecorder) RecordMiss(ctx context.Context, q questiongen.Question) error {
	return r.m.RecordMiss(ctx, r.userID, q)
}
