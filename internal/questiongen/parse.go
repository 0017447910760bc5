package questiongen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/abhisek/mockexam/internal/llm"
)

// extractRecords recovers a JSON array from model output. It tries, in
// order: the text as-is, the text with Markdown code fences removed, and
// the span from the first '[' to the last ']'. The first stage that yields
// an array wins.
func extractRecords(text string) ([]json.RawMessage, error) {
	if recs, ok := decodeArray(strings.TrimSpace(text)); ok {
		return recs, nil
	}

	stripped := stripFences(text)
	if recs, ok := decodeArray(stripped); ok {
		return recs, nil
	}

	start := strings.Index(stripped, "[")
	end := strings.LastIndex(stripped, "]")
	if start >= 0 && end > start {
		if recs, ok := decodeArray(stripped[start : end+1]); ok {
			return recs, nil
		}
	}

	return nil, ErrMalformedResponse
}

func decodeArray(s string) ([]json.RawMessage, bool) {
	var recs []json.RawMessage
	if err := json.Unmarshal([]byte(s), &recs); err != nil {
		return nil, false
	}
	return recs, true
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// record is a question record as the model produces it.
type record struct {
	Category    string   `json:"category"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      float64  `json:"answer"`
	Explanation string   `json:"explanation"`
}

// parseQuestions turns model output into questions. Records that fail
// RecordSchema are dropped one by one; dropped reports how many.
func parseQuestions(text string) (questions []Question, dropped int, err error) {
	raws, err := extractRecords(text)
	if err != nil {
		return nil, 0, err
	}

	for _, raw := range raws {
		q, ok := parseRecord(raw)
		if !ok {
			dropped++
			continue
		}
		questions = append(questions, q)
	}
	return questions, dropped, nil
}

func parseRecord(raw json.RawMessage) (Question, bool) {
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return Question{}, false
	}
	if err := llm.Validate(RecordSchema, value); err != nil {
		return Question{}, false
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Question{}, false
	}

	q := Question{
		Category:     rec.Category,
		Prompt:       rec.Question,
		Options:      rec.Options,
		CorrectIndex: NormalizeAnswer(int(rec.Answer)),
		Explanation:  rec.Explanation,
	}
	return q, q.Valid()
}
