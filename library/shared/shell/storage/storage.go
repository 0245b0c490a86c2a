package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/catalog/postgresengine"
	"github.com/AntonStoeckl/library-reservations-go/catalog/sqliteengine"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/config"
)

// Store is the complete catalog store and reservation ledger, implemented by every engine.
type Store interface {
	Migrate(ctx context.Context) error
	WithinTransaction(ctx context.Context, fn catalog.TxFunc) error
	GetBook(ctx context.Context, bookID uuid.UUID) (catalog.Book, error)
	ListBooks(ctx context.Context) ([]catalog.Book, error)
	GetReservation(ctx context.Context, reservationID uuid.UUID) (catalog.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID uuid.UUID) ([]catalog.ReservationView, error)
	ListAllReservations(ctx context.Context) ([]catalog.ReservationView, error)
	UpsertUser(ctx context.Context, userID uuid.UUID, username string) error
	PendingEvents(ctx context.Context, limit int) ([]catalog.DomainEvent, error)
	MarkEventPublished(ctx context.Context, eventID uuid.UUID) error
}

var (
	_ Store = (*postgresengine.Store)(nil)
	_ Store = (*sqliteengine.Store)(nil)
)

// Observability bundles the optional collaborators handed to the engine. Nil fields are skipped.
type Observability struct {
	Logger           catalog.Logger
	ContextualLogger catalog.ContextualLogger
	Metrics          catalog.MetricsCollector
	Tracing          catalog.TracingCollector
}

// Connection is an opened Store together with the database handle it owns.
type Connection struct {
	Store       Store
	AdapterType string
	closeFn     func()
}

// Close releases the underlying database handle.
func (c *Connection) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Open connects to the database selected by cfg.AdapterType, creates the engine and migrates the schema.
func Open(ctx context.Context, cfg config.Config, observability Observability) (*Connection, error) {
	connection, err := connect(ctx, cfg, observability)
	if err != nil {
		return nil, err
	}

	if migrateErr := connection.Store.Migrate(ctx); migrateErr != nil {
		connection.Close()

		return nil, migrateErr
	}

	return connection, nil
}

func connect(ctx context.Context, cfg config.Config, observability Observability) (*Connection, error) {
	switch cfg.AdapterType {
	case config.AdapterTypeSQLite:
		db, err := config.SQLiteDB(ctx, cfg)
		if err != nil {
			return nil, err
		}

		store, err := sqliteengine.NewStore(db, sqliteOptions(observability)...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &Connection{Store: store, AdapterType: cfg.AdapterType, closeFn: func() { _ = db.Close() }}, nil

	case config.AdapterTypePGXPool:
		pool, err := config.PostgresPGXPool(ctx, cfg)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, postgresOptions(observability)...)
		if err != nil {
			pool.Close()
			return nil, err
		}

		return &Connection{Store: store, AdapterType: cfg.AdapterType, closeFn: pool.Close}, nil

	case config.AdapterTypeSQLDB:
		db, err := config.PostgresSQLDB(ctx, cfg)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, postgresOptions(observability)...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &Connection{Store: store, AdapterType: cfg.AdapterType, closeFn: func() { _ = db.Close() }}, nil

	case config.AdapterTypeSQLXDB:
		db, err := config.PostgresSQLX(ctx, cfg)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, postgresOptions(observability)...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &Connection{Store: store, AdapterType: cfg.AdapterType, closeFn: func() { _ = db.Close() }}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownAdapterType, cfg.AdapterType)
	}
}

func postgresOptions(observability Observability) []postgresengine.Option {
	var options []postgresengine.Option

	if observability.Logger != nil {
		options = append(options, postgresengine.WithLogger(observability.Logger))
	}

	if observability.ContextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(observability.ContextualLogger))
	}

	if observability.Metrics != nil {
		options = append(options, postgresengine.WithMetrics(observability.Metrics))
	}

	if observability.Tracing != nil {
		options = append(options, postgresengine.WithTracing(observability.Tracing))
	}

	return options
}

func sqliteOptions(observability Observability) []sqliteengine.Option {
	var options []sqliteengine.Option

	if observability.Logger != nil {
		options = append(options, sqliteengine.WithLogger(observability.Logger))
	}

	if observability.ContextualLogger != nil {
		options = append(options, sqliteengine.WithContextualLogger(observability.ContextualLogger))
	}

	if observability.Metrics != nil {
		options = append(options, sqliteengine.WithMetrics(observability.Metrics))
	}

	if observability.Tracing != nil {
		options = append(options, sqliteengine.WithTracing(observability.Tracing))
	}

	return options
}
