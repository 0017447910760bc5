package llm

import (
	"context"
	"log"
	"time"

	"github.com/abhisek/mockexam/internal/store"
)

// PurposeModelList labels the events written for ListModels calls.
const PurposeModelList = "model-list"

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, eventRepo: repo}
}

func (l *LoggingProvider) Name() string { return l.inner.Name() }

func (l *LoggingProvider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	start := time.Now()
	models, err := l.inner.ListModels(ctx)

	data := store.LLMRequestEventData{
		Provider:   l.inner.Name(),
		Purpose:    PurposeModelList,
		Credential: CredentialFrom(ctx),
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	l.record(ctx, data)

	return models, err
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:   l.inner.Name(),
		Model:      req.Model,
		Purpose:    PurposeFrom(ctx),
		Credential: CredentialFrom(ctx),
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}
	l.record(ctx, data)

	return resp, err
}

// record stores the event without failing the request if logging fails.
// The request context may already be past its deadline, so the write gets
// its own.
func (l *LoggingProvider) record(ctx context.Context, data store.LLMRequestEventData) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := l.eventRepo.AppendLLMRequest(ctx, data); err != nil {
		log.Printf("[LLM] warning: failed to log %s request event: %v", data.Purpose, err)
	}
}
