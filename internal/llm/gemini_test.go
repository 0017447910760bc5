package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}
	return p
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestGeminiProvider_ListModels(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "models/embedding-001", "supportedGenerationMethods": []string{"embedContent"}},
				{"name": "models/gemini-2.5-pro", "displayName": "Gemini 2.5 Pro", "supportedGenerationMethods": []string{"generateContent", "countTokens"}},
				{"name": "models/gemini-2.0-flash", "supportedGenerationMethods": []string{"generateContent"}},
			},
		})
	}

	p := newTestGeminiProvider(t, handler)
	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}
	if models[0].Generative {
		t.Errorf("embedding model should not be generative: %+v", models[0])
	}
	if !models[1].Generative || models[1].Fast || models[1].ID != "gemini-2.5-pro" {
		t.Errorf("pro model = %+v", models[1])
	}
	if !models[2].Generative || !models[2].Fast || models[2].ID != "gemini-2.0-flash" {
		t.Errorf("flash model = %+v", models[2])
	}
}

func TestGeminiProvider_Generate(t *testing.T) {
	var gotPath string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]any{{"text": `[{"question":"Q?"}]`}},
					},
					"finishReason": "STOP",
				},
			},
			"usageMetadata": map[string]any{
				"promptTokenCount":     40,
				"candidatesTokenCount": 25,
				"totalTokenCount":      65,
			},
		})
	}

	p := newTestGeminiProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		Model:    "gemini-2.0-flash",
		Messages: []Message{{Role: RoleUser, Content: "Generate questions."}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(gotPath, "gemini-2.0-flash:generateContent") {
		t.Errorf("request path = %q", gotPath)
	}
	if resp.Text() != `[{"question":"Q?"}]` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("expected stop reason 'end', got %q", resp.StopReason)
	}
}

func TestGeminiProvider_QuotaExhausted(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    429,
				"message": "Resource has been exhausted (e.g. check quota).",
				"status":  "RESOURCE_EXHAUSTED",
			},
		})
	}

	p := newTestGeminiProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Model:    "gemini-2.0-flash",
		Messages: []Message{{Role: RoleUser, Content: "test"}},
	})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestGeminiProvider_Forbidden(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"},
		})
	}

	p := newTestGeminiProvider(t, handler)
	_, err := p.ListModels(context.Background())
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
	if unavail.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", unavail.StatusCode)
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"answer":   map[string]any{"type": "integer", "minimum": 0},
				"category": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 5,
					"maxItems": 5,
				},
			},
			"required": []string{"question", "options", "answer"},
		},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "ARRAY" {
		t.Fatalf("expected ARRAY type, got %s", schema.Type)
	}
	item := schema.Items
	if item == nil || item.Type != "OBJECT" {
		t.Fatalf("expected OBJECT items, got %+v", item)
	}
	if len(item.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(item.Properties))
	}
	if item.Properties["answer"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for answer, got %s", item.Properties["answer"].Type)
	}
	if m := item.Properties["answer"].Minimum; m == nil || *m != 0 {
		t.Fatalf("expected minimum 0 for answer, got %v", m)
	}
	if len(item.Properties["category"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(item.Properties["category"].Enum))
	}
	opts := item.Properties["options"]
	if opts.Items.Type != "STRING" {
		t.Fatalf("expected STRING option items, got %s", opts.Items.Type)
	}
	if opts.MinItems == nil || *opts.MinItems != 5 || opts.MaxItems == nil || *opts.MaxItems != 5 {
		t.Fatalf("expected 5..5 items, got %v..%v", opts.MinItems, opts.MaxItems)
	}
	if len(item.Required) != 3 {
		t.Fatalf("expected 3 required fields, got %d", len(item.Required))
	}
}
