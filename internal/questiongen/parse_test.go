package questiongen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRecords = `[
  {"category": "Clinical Practice", "question": "Q1?", "options": ["a","b","c","d","e"], "answer": 2, "explanation": "because"},
  {"question": "Q2?", "options": ["a","b","c","d","e"], "answer": 0}
]`

func TestExtractRecords_Stages(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"strict", twoRecords},
		{"json fence", "```json\n" + twoRecords + "\n```"},
		{"bare fence", "```\n" + twoRecords + "\n```"},
		{"prose around", "Here are your questions:\n" + twoRecords + "\nGood luck!"},
		{"fence and prose", "Sure!\n```json\n" + twoRecords + "\n```\nLet me know."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := extractRecords(tt.text)
			require.NoError(t, err)
			assert.Len(t, recs, 2)
		})
	}
}

func TestExtractRecords_Rejects(t *testing.T) {
	for _, text := range []string{
		"",
		"I cannot help with that.",
		`{"question": "not an array"}`,
		"[ this is not json ]",
		"] backwards [",
	} {
		_, err := extractRecords(text)
		assert.ErrorIs(t, err, ErrMalformedResponse, "text %q", text)
	}
}

func TestParseQuestions_NormalizesAndMaps(t *testing.T) {
	qs, dropped, err := parseQuestions(twoRecords)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, qs, 2)

	assert.Equal(t, Question{
		Category:     "Clinical Practice",
		Prompt:       "Q1?",
		Options:      []string{"a", "b", "c", "d", "e"},
		CorrectIndex: 1,
		Explanation:  "because",
	}, qs[0])
	assert.Equal(t, 0, qs[1].CorrectIndex)
	assert.Empty(t, qs[1].Category)
}

func TestParseQuestions_DropsMalformedRecords(t *testing.T) {
	text := `[
	  {"question": "ok", "options": ["a","b","c","d","e"], "answer": 6},
	  {"question": "four options", "options": ["a","b","c","d"], "answer": 1},
	  {"question": "no answer", "options": ["a","b","c","d","e"]},
	  {"options": ["a","b","c","d","e"], "answer": 1},
	  {"question": "", "options": ["a","b","c","d","e"], "answer": 1},
	  {"question": "negative", "options": ["a","b","c","d","e"], "answer": -2},
	  {"question": "string answer", "options": ["a","b","c","d","e"], "answer": "2"},
	  "not an object"
	]`

	qs, dropped, err := parseQuestions(text)
	require.NoError(t, err)
	assert.Equal(t, 7, dropped)
	require.Len(t, qs, 1)
	assert.Equal(t, "ok", qs[0].Prompt)
	assert.Equal(t, 1, qs[0].CorrectIndex)
	assert.True(t, qs[0].Valid())
}

func TestParseQuestions_EmptyArray(t *testing.T) {
	qs, dropped, err := parseQuestions("[]")
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, qs)
}

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage(20)
	assert.Contains(t, msg, "Write 20 multiple-choice questions")
	for _, c := range Categories {
		assert.Contains(t, msg, c)
	}
	assert.True(t, strings.Contains(msg, `"answer"`))
}

// batchJSON renders n valid records followed by bad records missing options.
func batchJSON(n, bad int) string {
	var parts []string
	for i := range n {
		parts = append(parts, fmt.Sprintf(
			`{"category": %q, "question": "Question %d?", "options": ["a","b","c","d","e"], "answer": %d, "explanation": "x"}`,
			Categories[i%len(Categories)], i+1, i%5+1))
	}
	for i := range bad {
		parts = append(parts, fmt.Sprintf(`{"question": "Broken %d?", "answer": 1}`, i+1))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
