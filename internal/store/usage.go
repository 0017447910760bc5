package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// usageRepo implements UsageRepo. Increments are a single upsert statement
// inside a transaction, so concurrent writers from other processes are
// serialized by SQLite and never overwrite each other's counts.
type usageRepo struct {
	db *sqlx.DB
}

func (r *usageRepo) Get(ctx context.Context, userID, day string) (int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("count").
		From(entsql.Table(usageTable)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("day", day),
		)).
		Query()

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, &StorageError{Op: "get usage", Err: err}
	}
	return count, nil
}

func (r *usageRepo) Increment(ctx context.Context, userID, day string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("increment usage: negative amount %d", amount)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(usageTable).
		Columns("user_id", "day", "count").
		Values(userID, day, amount).
		OnConflict(
			entsql.ConflictColumns("user_id", "day"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add("count", amount)
			}),
		).
		Query()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "increment usage", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: "increment usage", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "increment usage", Err: err}
	}
	return nil
}
