package config

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// PostgresSQLX creates a configured and pinged *sqlx.DB for the configured database.
func PostgresSQLX(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DBDSN)
	if err != nil {
		return nil, errors.Join(ErrInvalidSetting, err)
	}

	// Configure connection pool settings
	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultSQLMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultSQLMaxConnIdleTime)

	// Test the connection
	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()

		return nil, errors.Join(catalog.ErrStorageUnavailable, pingErr)
	}

	return db, nil
}
