package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

type eventRow struct {
	ID           int       `db:"id"`
	Provider     string    `db:"provider"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	Credential   int       `db:"credential"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
	CreatedAt    time.Time `db:"created_at"`
}

// eventRepo implements EventRepo.
type eventRepo struct {
	db *sqlx.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(eventTable).
		Columns("provider", "model", "purpose", "credential", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "created_at").
		Values(data.Provider, data.Model, data.Purpose, data.Credential, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, time.Now().UTC()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: "save LLM request event", Err: err}
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "provider", "model", "purpose", "credential", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "created_at").
		From(entsql.Table(eventTable)).
		OrderBy(entsql.Desc("id"))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &StorageError{Op: "query LLM events", Err: err}
	}

	events := make([]LLMRequestEvent, len(rows))
	for i, row := range rows {
		events[i] = LLMRequestEvent{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			LLMRequestEventData: LLMRequestEventData{
				Provider:     row.Provider,
				Model:        row.Model,
				Purpose:      row.Purpose,
				Credential:   row.Credential,
				InputTokens:  row.InputTokens,
				OutputTokens: row.OutputTokens,
				LatencyMs:    row.LatencyMs,
				Success:      row.Success,
				ErrorMessage: row.ErrorMessage,
			},
		}
	}
	return events, nil
}
