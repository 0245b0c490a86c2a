package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/catalog/sqliteengine"
)

// SQLiteDB opens and pings the embedded SQLite database file at cfg.SQLitePath.
func SQLiteDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sqliteengine.OpenDB(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()

		return nil, errors.Join(catalog.ErrStorageUnavailable, pingErr)
	}

	return db, nil
}
