package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-record",
		Description: "A quiz record",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 5,
					"maxItems": 5,
				},
				"answer": map[string]any{"type": "integer", "minimum": 0},
				"level":  map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
			},
			"required": []any{"question", "options", "answer"},
		},
	}
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestValidate_Valid(t *testing.T) {
	for _, raw := range []string{
		`{"question":"Q?","options":["a","b","c","d","e"],"answer":2,"level":"easy"}`,
		`{"question":"Q?","options":["a","b","c","d","e"],"answer":0}`,
	} {
		if err := Validate(testSchema(), decode(t, raw)); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", raw, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing options", `{"question":"Q?","answer":1}`},
		{"four options", `{"question":"Q?","options":["a","b","c","d"],"answer":1}`},
		{"non-string option", `{"question":"Q?","options":["a","b","c","d",5],"answer":1}`},
		{"empty question", `{"question":"","options":["a","b","c","d","e"],"answer":1}`},
		{"negative answer", `{"question":"Q?","options":["a","b","c","d","e"],"answer":-1}`},
		{"fractional answer", `{"question":"Q?","options":["a","b","c","d","e"],"answer":1.5}`},
		{"string answer", `{"question":"Q?","options":["a","b","c","d","e"],"answer":"1"}`},
		{"invalid enum", `{"question":"Q?","options":["a","b","c","d","e"],"answer":1,"level":"medium"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(testSchema(), decode(t, tt.raw))
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SchemaError, got: %v", err)
			}
			if se.Schema != "test-record" {
				t.Errorf("Schema = %q", se.Schema)
			}
		})
	}
}

func TestValidate_NilSchema(t *testing.T) {
	if err := Validate(nil, map[string]any{"anything": "goes"}); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidate_DecodedValue(t *testing.T) {
	var records []any
	raw := `[{"question":"Q1","options":["a","b","c","d","e"],"answer":3},{"question":"Q2","options":["a"],"answer":3}]`
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if err := Validate(testSchema(), records[0]); err != nil {
		t.Fatalf("first record: expected no error, got: %v", err)
	}
	if err := Validate(testSchema(), records[1]); err == nil {
		t.Fatal("second record: expected error for short options")
	}
}
