package exam

// Summary holds the figures shown when a sitting ends.
type Summary struct {
	Total    int
	Correct  int
	Accuracy float64
}

// BuildSummary summarizes the session so far. Total counts every
// submitted question, including a pending one.
func BuildSummary(s *Session) Summary {
	answered := s.index
	if s.submitted {
		answered++
	}

	var accuracy float64
	if answered > 0 {
		accuracy = float64(s.correct) / float64(answered)
	}

	return Summary{
		Total:    answered,
		Correct:  s.correct,
		Accuracy: accuracy,
	}
}
