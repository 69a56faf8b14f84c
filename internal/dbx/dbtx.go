// Package dbx holds the transaction plumbing behind the postgres toggles:
// the like toggle on posts and the follow toggle on users both lock their
// rows, flip an edge row and commit as one unit.
package dbx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/common"
)

// DBTX is the handle a repository statement runs on: the pool for single
// statements, or the *sql.Tx that WithTx passes to a toggle.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back on an error or a panic; the panic is re-raised after rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if err := dbx.LockRows(ctx, tx, 1, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID); err != nil {
//	        return err
//	    }
//	    _, err := dbx.ToggleRow(ctx, tx, deleteLike, insertLike, postID, userID)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// LockRows runs a SELECT ... FOR UPDATE and returns common.ErrorNotFound
// unless it locked at least want rows.
func LockRows(ctx context.Context, tx DBTX, want int, query string, args ...any) error {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if locked < want {
		return common.ErrorNotFound
	}
	return nil
}

// ToggleRow deletes an edge row and inserts it when nothing was deleted.
// Both statements take the same args. It reports whether the edge exists
// afterwards. Callers hold the row lock taken by LockRows, so two toggles
// on the same edge never both insert.
func ToggleRow(ctx context.Context, tx DBTX, deleteQuery, insertQuery string, args ...any) (bool, error) {
	res, err := tx.ExecContext(ctx, deleteQuery, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, insertQuery, args...); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}
