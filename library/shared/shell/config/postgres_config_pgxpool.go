package config

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// PostgresPGXPoolConfig creates a pgxpool.Config for the configured database.
func PostgresPGXPoolConfig(cfg Config) (*pgxpool.Config, error) {
	const defaultMinConnections = int32(2)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(cfg.DBDSN)
	if err != nil {
		return nil, errors.Join(ErrInvalidSetting, err)
	}

	dbConfig.MaxConns = cfg.DBMaxConns
	dbConfig.MinConns = min(defaultMinConnections, cfg.DBMaxConns)
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// PostgresPGXPool creates a connected *pgxpool.Pool for the configured database.
func PostgresPGXPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(catalog.ErrStorageUnavailable, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()

		return nil, errors.Join(catalog.ErrStorageUnavailable, pingErr)
	}

	return pool, nil
}
