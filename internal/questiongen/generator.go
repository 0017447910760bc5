// Package questiongen generates batches of five-option exam questions by
// folding over a pool of LLM API credentials.
package questiongen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/abhisek/mockexam/internal/llm"
)

// PurposeBatch labels generation requests in the LLM event log.
const PurposeBatch = "batch-gen"

// Shuffler permutes credentials in place.
type Shuffler func(keys []string)

// Generator produces question batches.
type Generator struct {
	factory llm.Factory
	config  Config
	shuffle Shuffler
}

// New creates a Generator that builds one provider per credential through
// factory.
func New(factory llm.Factory, cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.ListTimeout <= 0 {
		cfg.ListTimeout = def.ListTimeout
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = def.GenerateTimeout
	}
	return &Generator{
		factory: factory,
		config:  cfg,
		shuffle: func(keys []string) {
			rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		},
	}
}

// WithShuffler replaces the credential shuffler, e.g. with a no-op for
// deterministic tests.
func (g *Generator) WithShuffler(s Shuffler) *Generator {
	g.shuffle = s
	return g
}

// Generate asks for count questions. Credentials are tried one at a time
// in shuffled order; the first one that yields at least one valid question
// wins and later credentials are left untouched. The batch may hold fewer
// or more than count questions. When every credential fails the result is
// an *ExhaustedError.
func (g *Generator) Generate(ctx context.Context, credentials []string, count int) ([]Question, error) {
	if len(credentials) == 0 {
		return nil, ErrNoCredentials
	}
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}

	keys := append([]string(nil), credentials...)
	g.shuffle(keys)

	ctx = llm.WithPurpose(ctx, PurposeBatch)

	var attempts []*AttemptError
	for i, key := range keys {
		slot := i + 1
		questions, err := g.attempt(llm.WithCredential(ctx, slot), key, count)
		if err == nil {
			return questions, nil
		}

		var ae *AttemptError
		if !errors.As(err, &ae) {
			ae = &AttemptError{Slot: slot, Kind: KindTransport, Err: err}
		}
		log.Printf("[Generator] %v", ae)
		attempts = append(attempts, ae)

		// The caller gave up; remaining credentials would fail the same way.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

// attempt runs the full list-choose-generate-parse sequence for one key.
func (g *Generator) attempt(ctx context.Context, key string, count int) ([]Question, error) {
	slot := llm.CredentialFrom(ctx)

	provider, err := g.factory(ctx, key)
	if err != nil {
		return nil, &AttemptError{Slot: slot, Kind: KindTransport, Err: err}
	}

	listCtx, cancel := context.WithTimeout(ctx, g.config.ListTimeout)
	models, err := provider.ListModels(listCtx)
	cancel()
	if err != nil {
		return nil, &AttemptError{Slot: slot, Kind: classify(err), Err: fmt.Errorf("list models: %w", err)}
	}

	model, ok := chooseModel(models)
	if !ok {
		return nil, &AttemptError{Slot: slot, Kind: KindNoCapableModel, Err: ErrNoCapableModel}
	}

	genCtx, cancel := context.WithTimeout(ctx, g.config.GenerateTimeout)
	defer cancel()
	resp, err := provider.Generate(genCtx, llm.Request{
		Model:  model.ID,
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(count)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, &AttemptError{Slot: slot, Kind: classify(err), Err: fmt.Errorf("generate with %s: %w", model.ID, err)}
	}

	questions, dropped, err := parseQuestions(resp.Text())
	if err != nil {
		return nil, &AttemptError{Slot: slot, Kind: KindMalformedResponse, Err: err}
	}
	if dropped > 0 {
		log.Printf("[Generator] key #%d: dropped %d malformed record(s)", slot, dropped)
	}
	if len(questions) == 0 {
		return nil, &AttemptError{Slot: slot, Kind: KindMalformedResponse, Err: ErrMalformedResponse}
	}
	return questions, nil
}

func classify(err error) Kind {
	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) {
		return KindUpstreamQuota
	}
	return KindTransport
}
