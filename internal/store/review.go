package store

import (
	"context"
	"encoding/json"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// reviewRow is the on-disk shape of a review note.
type reviewRow struct {
	ID          int       `db:"id"`
	UserID      string    `db:"user_id"`
	Category    string    `db:"category"`
	Question    string    `db:"question"`
	Options     string    `db:"options"`
	Answer      int       `db:"answer"`
	Explanation string    `db:"explanation"`
	CreatedAt   time.Time `db:"created_at"`
}

// reviewRepo implements ReviewRepo.
type reviewRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func (r *reviewRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}

func (r *reviewRepo) Append(ctx context.Context, note ReviewNote) error {
	options := note.Options
	if options == nil {
		options = []string{}
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return &StorageError{Op: "append review note", Err: err}
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(reviewTable).
		Columns("user_id", "category", "question", "options", "answer", "explanation", "created_at").
		Values(note.UserID, note.Category, note.Question, string(optionsJSON), note.CorrectIndex, note.Explanation, r.clock()).
		Query()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "append review note", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: "append review note", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "append review note", Err: err}
	}
	return nil
}

func (r *reviewRepo) List(ctx context.Context, userID string) ([]ReviewNote, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "user_id", "category", "question", "options", "answer", "explanation", "created_at").
		From(entsql.Table(reviewTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Query()

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &StorageError{Op: "list review notes", Err: err}
	}

	notes := make([]ReviewNote, 0, len(rows))
	for _, row := range rows {
		var options []string
		if err := json.Unmarshal([]byte(row.Options), &options); err != nil {
			return nil, &StorageError{Op: "decode review note options", Err: err}
		}
		notes = append(notes, ReviewNote{
			ID:           row.ID,
			UserID:       row.UserID,
			Category:     row.Category,
			Question:     row.Question,
			Options:      options,
			CorrectIndex: row.Answer,
			Explanation:  row.Explanation,
			CreatedAt:    row.CreatedAt,
		})
	}
	return notes, nil
}

func (r *reviewRepo) Delete(ctx context.Context, userID, question string) (int64, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(reviewTable).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("question", question),
		)).
		Query()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, &StorageError{Op: "delete review note", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &StorageError{Op: "delete review note", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Op: "delete review note", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &StorageError{Op: "delete review note", Err: err}
	}
	return n, nil
}
