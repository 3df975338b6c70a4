package clients

import (
	"context"
	"database/sql"
	"epicq/lib/constants"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresSQLClient creates a new PostgreSQL client with connection pooling optimized for Lambda.
// The returned pool is handed to every repository explicitly; nothing caches it globally.
func NewPostgresSQLClient(host, port, dbname, user, password, sslMode string) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslMode,
	)

	db, err := sql.Open(constants.DRIVER_NAME, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection to %s:%s/%s: %w", host, port, dbname, err)
	}

	// Lambda-optimized connection settings
	db.SetMaxOpenConns(2) // Max 2 open connections for Lambda
	db.SetMaxIdleConns(1) // Keep 1 idle connection
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Validate connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s:%s/%s: %w", host, port, dbname, err)
	}

	return db, nil
}
