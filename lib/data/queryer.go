package data

import (
	"context"
	"database/sql"
)

// queryer is satisfied by both *sql.DB and *sql.Tx, so read helpers can run inside or
// outside a transaction
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
