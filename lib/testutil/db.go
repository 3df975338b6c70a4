// Package testutil provides a SQLite-backed database and fixtures for DAO tests.
// The schema mirrors lib/data/migrations using SQLite types; DAO queries stick to the
// SQL subset both engines accept.
package testutil

import (
	"database/sql"
	_ "embed"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

//go:embed schema_sqlite.sql
var schemaSQL string

// OpenTestDB creates a fresh database file in the test's temp dir and applies the schema.
// The pool is limited to one connection, so callers must not query through the *sql.DB
// while holding an open transaction.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "epicq.db")
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("failed to apply test schema: %v", err)
	}
	return db
}

// TestLogger returns a logger that only reports errors, to keep test output readable
func TestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// FixedClock returns a clock function frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// CountRows counts the rows of table matching an optional WHERE clause
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...interface{}) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
