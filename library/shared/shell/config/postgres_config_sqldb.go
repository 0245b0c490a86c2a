package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	defaultMaxOpenConnections = 50
	defaultMaxIdleConnections = 10
	defaultSQLMaxConnLifetime = time.Hour
	defaultSQLMaxConnIdleTime = time.Minute * 5
)

// PostgresSQLDB creates a configured and pinged *sql.DB (lib/pq) for the configured database.
func PostgresSQLDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DBDSN)
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
