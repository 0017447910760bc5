package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/mockexam/internal/exam"
	"github.com/abhisek/mockexam/internal/questiongen"
	"github.com/abhisek/mockexam/internal/quota"
	"github.com/abhisek/mockexam/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Count int    `json:"count,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Retry bool   `json:"retry,omitempty"`
}

// questionJSON hides the answer until the question is graded.
type questionJSON struct {
	Category string   `json:"category"`
	Prompt   string   `json:"question"`
	Options  []string `json:"options"`
}

type outcomeJSON struct {
	Correct      bool   `json:"correct"`
	Choice       int    `json:"choice"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation"`
}

type summaryJSON struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type viewJSON struct {
	Phase     string        `json:"phase"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	Correct   int           `json:"correct"`
	Submitted bool          `json:"submitted"`
	Question  *questionJSON `json:"question,omitempty"`
	Outcome   *outcomeJSON  `json:"outcome,omitempty"`
	Summary   *summaryJSON  `json:"summary,omitempty"`
}

type noteJSON struct {
	Category     string   `json:"category"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	CreatedAt    string   `json:"created_at"`
}

func renderView(sess *exam.Session) viewJSON {
	v := sess.View()
	out := viewJSON{
		Phase:     v.Phase.String(),
		Index:     v.Index,
		Total:     v.Total,
		Correct:   v.Correct,
		Submitted: v.Submitted,
	}
	if v.Current != nil {
		out.Question = &questionJSON{
			Category: v.Current.Category,
			Prompt:   v.Current.Prompt,
			Options:  v.Current.Options,
		}
	}
	if v.Outcome != nil {
		out.Outcome = renderOutcome(*v.Outcome)
	}
	if v.Phase != exam.PhaseIdle {
		sum := exam.BuildSummary(sess)
		out.Summary = &summaryJSON{Total: sum.Total, Correct: sum.Correct, Accuracy: sum.Accuracy}
	}
	return out
}

func renderOutcome(o exam.Outcome) *outcomeJSON {
	return &outcomeJSON{
		Correct:      o.Correct,
		Choice:       o.Choice,
		CorrectIndex: o.CorrectIndex,
		Explanation:  o.Question.Explanation,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	if s.cfg.AccessPassword != "" && !s.checkPassword(req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "wrong password"})
		return
	}

	v := s.visitor(visitorIDFrom(r.Context()))
	v.mu.Lock()
	v.authed = true
	v.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	v.mu.Lock()
	defer v.mu.Unlock()

	used, limit, err := s.svc.Usage(r.Context(), v.id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": v.id,
		"used":    used,
		"limit":   limit,
		"session": renderView(v.sess),
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := s.svc.RequestNewBatch(r.Context(), v.id, v.sess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   n,
		"session": renderView(v.sess),
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice *int `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	choice := exam.NoChoice
	if req.Choice != nil {
		choice = *req.Choice
	}

	v := visitorFrom(r.Context())
	v.mu.Lock()
	defer v.mu.Unlock()

	out, err := s.svc.SubmitAnswer(r.Context(), v.sess, choice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": renderOutcome(out),
		"session": renderView(v.sess),
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := s.svc.AdvanceQuestion(v.sess); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": renderView(v.sess)})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	v.mu.Lock()
	defer v.mu.Unlock()

	s.svc.GoHome(v.sess)
	writeJSON(w, http.StatusOK, map[string]any{"session": renderView(v.sess)})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())

	notes, err := s.svc.ViewReviewNotes(r.Context(), v.id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]noteJSON, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteJSON{
			Category:     n.Category,
			Question:     n.Question,
			Options:      n.Options,
			CorrectIndex: n.CorrectIndex,
			Explanation:  n.Explanation,
			CreatedAt:    n.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": out})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "question is required"})
		return
	}

	v := visitorFrom(r.Context())
	n, err := s.svc.DeleteReviewNote(r.Context(), v.id, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		limitErr   *quota.LimitError
		exhausted  *questiongen.ExhaustedError
		storageErr *store.StorageError
	)

	switch {
	case errors.As(err, &limitErr):
		writeJSON(w, http.StatusTooManyRequests, errorBody{
			Error: err.Error(),
			Count: limitErr.Count,
			Limit: limitErr.Limit,
		})
	case errors.As(err, &exhausted):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: exhausted.Summary(), Retry: true})
	case errors.Is(err, questiongen.ErrNoCredentials):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), Retry: true})
	case errors.As(err, &storageErr):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "storage failure"})
	case errors.Is(err, exam.ErrMissingSelection), errors.Is(err, exam.ErrInvalidChoice):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, exam.ErrNotInProgress), errors.Is(err, exam.ErrAlreadySubmitted),
		errors.Is(err, exam.ErrNotSubmitted), errors.Is(err, exam.ErrEmptyBatch):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
