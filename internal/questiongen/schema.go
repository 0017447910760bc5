package questiongen

import "github.com/abhisek/mockexam/internal/llm"

// recordDefinition is the JSON schema of a single question record.
var recordDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"category": map[string]any{
			"type":        "string",
			"description": "The exam subject this question belongs to",
		},
		"question": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The question text",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    OptionCount,
			"maxItems":    OptionCount,
			"description": "Exactly five answer options",
		},
		"answer": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Number of the correct option, 1 to 5",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Why the correct option is right",
		},
	},
	"required": []any{"question", "options", "answer"},
}

// RecordSchema validates one element of a generated batch. Records that fail
// it are dropped individually.
var RecordSchema = &llm.Schema{
	Name:        "exam-question",
	Description: "A five-option multiple-choice exam question",
	Definition:  recordDefinition,
}

// BatchSchema is sent with the generation request so providers with native
// structured output can constrain the response shape.
var BatchSchema = &llm.Schema{
	Name:        "exam-question-batch",
	Description: "A batch of five-option multiple-choice exam questions",
	Definition: map[string]any{
		"type":  "array",
		"items": recordDefinition,
	},
}
