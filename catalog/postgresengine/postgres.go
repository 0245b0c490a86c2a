package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect for goqu
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/catalog/internal/instrument"
	"github.com/AntonStoeckl/library-reservations-go/catalog/postgresengine/internal/adapters"
)

const (
	engineName      = "postgres"
	dialectPostgres = "postgres"

	defaultBooksTableName        = "books"
	defaultReservationsTableName = "reservations"
	defaultUsersTableName        = "users"
	defaultEventsTableName       = "catalog_events"

	// migrationLockKey serializes concurrent schema migrations via pg_advisory_xact_lock.
	migrationLockKey = 7_264_193_511
	migrationLockSQL = "SELECT pg_advisory_xact_lock($1)"

	logMsgRollbackFailed = "failed to roll back transaction"
	logMsgCloseRows      = "failed to close database rows"
	logMsgMigrated       = "migrated"
	logMsgUserUpserted   = "user upserted"
	logMsgEventPublished = "event marked as published"
)

const (
	operationMigrate             = "migrate"
	operationTransaction         = "transaction"
	operationGetBook             = "get_book"
	operationGetBookForUpdate    = "get_book_for_update"
	operationListBooks           = "list_books"
	operationCreateBook          = "create_book"
	operationUpdateBook          = "update_book"
	operationDeleteBook          = "delete_book"
	operationAdjustQuantity      = "adjust_quantity"
	operationInsertReservation   = "insert_reservation"
	operationGetReservation      = "get_reservation"
	operationSetStatus           = "set_reservation_status"
	operationCountActive         = "count_active_reservations"
	operationListByUser          = "list_reservations_by_user"
	operationListAll             = "list_all_reservations"
	operationUpsertUser          = "upsert_user"
	operationAppendEvent         = "append_event"
	operationPendingEvents       = "pending_events"
	operationMarkEventsPublished = "mark_event_published"
)

type tableNames struct {
	books        string
	reservations string
	users        string
	events       string
}

// Store represents a PostgreSQL-backed catalog store and reservation ledger.
type Store struct {
	db              adapters.DBAdapter
	tables          tableNames
	instrumentation *instrument.Instrumentation
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	store := &Store{
		db: db,
		tables: tableNames{
			books:        defaultBooksTableName,
			reservations: defaultReservationsTableName,
			users:        defaultUsersTableName,
			events:       defaultEventsTableName,
		},
		instrumentation: &instrument.Instrumentation{Engine: engineName},
	}

	for _, option := range options {
		if err := option(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Migrate creates the tables and indexes if they do not exist yet.
// Concurrent callers are serialized with an advisory lock.
func (s *Store) Migrate(ctx context.Context) (err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationMigrate, nil)
	defer func() { observation.Finish(err) }()

	return s.withinRawTransaction(ctx, func(ctx context.Context, tx adapters.DBTx) error {
		if _, lockErr := tx.Exec(ctx, migrationLockSQL, int64(migrationLockKey)); lockErr != nil {
			s.instrumentation.LogStatementError(ctx, logMsgDBExecFailed, lockErr, migrationLockSQL)

			return classifyError(lockErr)
		}

		ddl := schemaDDL(s.tables)
		start := time.Now()
		if _, execErr := tx.Exec(ctx, ddl); execErr != nil {
			s.instrumentation.LogStatementError(ctx, logMsgDBExecFailed, execErr, ddl)

			return classifyError(execErr)
		}

		s.instrumentation.LogSQL(ctx, operationMigrate, "schema ddl", time.Since(start))
		s.instrumentation.LogOperation(ctx, logMsgMigrated, "books_table", s.tables.books)

		return nil
	})
}

// WithinTransaction runs fn inside one database transaction.
// The transaction commits if fn returns nil and rolls back otherwise, also when ctx is canceled.
func (s *Store) WithinTransaction(ctx context.Context, fn catalog.TxFunc) (err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationTransaction, nil)
	defer func() { observation.Finish(err) }()

	return s.withinRawTransaction(ctx, func(ctx context.Context, dbTx adapters.DBTx) error {
		return fn(ctx, &transaction{statements: s.statements(dbTx)})
	})
}

// withinRawTransaction is the transaction skeleton shared by WithinTransaction and Migrate.
func (s *Store) withinRawTransaction(ctx context.Context, fn func(ctx context.Context, tx adapters.DBTx) error) error {
	dbTx, err := s.db.BeginTx(ctx)
	if err != nil {
		return classifyError(errors.Join(catalog.ErrTransactionFailed, err))
	}

	defer func() {
		// after a successful commit this is a no-op
		if rollbackErr := dbTx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			s.instrumentation.LogWarning(ctx, logMsgRollbackFailed, rollbackErr)
		}
	}()

	if err = fn(ctx, dbTx); err != nil {
		return err
	}

	if err = dbTx.Commit(ctx); err != nil {
		return classifyError(errors.Join(catalog.ErrTransactionFailed, err))
	}

	return nil
}

// GetBook reads a single book outside of a transaction.
func (s *Store) GetBook(ctx context.Context, bookID uuid.UUID) (book catalog.Book, err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationGetBook, nil)
	defer func() { observation.Finish(err) }()

	return s.statements(s.db).getBook(ctx, bookID, false)
}

// ListBooks returns the full catalog ordered by book id.
func (s *Store) ListBooks(ctx context.Context) (books []catalog.Book, err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationListBooks, nil)
	defer func() { observation.Finish(err) }()

	return s.statements(s.db).listBooks(ctx)
}

// GetReservation reads a single reservation outside of a transaction.
func (s *Store) GetReservation(ctx context.Context, reservationID uuid.UUID) (reservation catalog.Reservation, err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationGetReservation, nil)
	defer func() { observation.Finish(err) }()

	return s.statements(s.db).getReservation(ctx, reservationID, false)
}

// ListReservationsByUser returns all reservations of the user, newest first, joined with book data.
func (s *Store) ListReservationsByUser(
	ctx context.Context,
	userID uuid.UUID,
) (views []catalog.ReservationView, err error) {

	observation, ctx := s.instrumentation.Start(ctx, operationListByUser, nil)
	defer func() { observation.Finish(err) }()

	return s.statements(s.db).listReservations(ctx, &userID)
}

// ListAllReservations returns all reservations, newest first, joined with book and user data.
func (s *Store) ListAllReservations(ctx context.Context) (views []catalog.ReservationView, err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationListAll, nil)
	defer func() { observation.Finish(err) }()

	return s.statements(s.db).listReservations(ctx, nil)
}

// UpsertUser records the display name of a user for reservation listings.
func (s *Store) UpsertUser(ctx context.Context, userID uuid.UUID, username string) (err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationUpsertUser, nil)
	defer func() { observation.Finish(err) }()

	if err = s.statements(s.db).upsertUser(ctx, userID, username); err != nil {
		return err
	}

	s.instrumentation.LogOperation(ctx, logMsgUserUpserted, "user_id", userID.String())

	return nil
}

// PendingEvents returns up to limit unpublished outbox events in append order.
func (s *Store) PendingEvents(ctx context.Context, limit int) (events []catalog.DomainEvent, err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationPendingEvents, nil)
	defer func() { observation.Finish(err) }()

	return s.statements(s.db).pendingEvents(ctx, limit)
}

// MarkEventPublished flags an outbox event as delivered.
func (s *Store) MarkEventPublished(ctx context.Context, eventID uuid.UUID) (err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationMarkEventsPublished, nil)
	defer func() { observation.Finish(err) }()

	if err = s.statements(s.db).markEventPublished(ctx, eventID); err != nil {
		return err
	}

	s.instrumentation.LogOperation(ctx, logMsgEventPublished, "event_id", eventID.String())

	return nil
}

func (s *Store) statements(db adapters.Querier) statements {
	return statements{
		db:              db,
		tables:          s.tables,
		instrumentation: s.instrumentation,
	}
}

func schemaDDL(tables tableNames) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	id               UUID PRIMARY KEY,
	title            TEXT NOT NULL,
	author           TEXT NOT NULL,
	genre            TEXT,
	publication_year INTEGER,
	description      TEXT,
	cover_ref        TEXT,
	quantity         INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)
);

CREATE TABLE IF NOT EXISTS %[2]s (
	id               UUID PRIMARY KEY,
	user_id          UUID NOT NULL,
	book_id          UUID NOT NULL,
	reservation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	status           TEXT NOT NULL CHECK (status IN ('active', 'canceled'))
);

CREATE INDEX IF NOT EXISTS %[2]s_user_date_idx ON %[2]s (user_id, reservation_date DESC);
CREATE INDEX IF NOT EXISTS %[2]s_book_active_idx ON %[2]s (book_id) WHERE status = 'active';

CREATE TABLE IF NOT EXISTS %[3]s (
	id       UUID PRIMARY KEY,
	username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS %[4]s (
	seq          BIGSERIAL PRIMARY KEY,
	id           UUID NOT NULL UNIQUE,
	event_type   TEXT NOT NULL,
	aggregate_id UUID NOT NULL,
	occurred_at  TIMESTAMPTZ NOT NULL,
	payload      JSONB NOT NULL,
	published_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS %[4]s_pending_idx ON %[4]s (seq) WHERE published_at IS NULL;
`, tables.books, tables.reservations, tables.users, tables.events)
}

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}
