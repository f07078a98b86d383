package store

import (
	"context"
	"database/sql"
	"fmt"

	txcontext "canvass/pkg/platform/tx"
)

// SQLTx runs roster transactions against a PostgreSQL pool. The opened
// transaction is carried in context so every store call inside fn shares it.
type SQLTx struct {
	db *sql.DB
}

// NewSQLTx builds the SQL transaction boundary.
func NewSQLTx(db *sql.DB) *SQLTx { return &SQLTx{db: db} }

func (t *SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
