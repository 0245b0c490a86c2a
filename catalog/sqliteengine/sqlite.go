package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // register sqlite3 dialect for goqu
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/catalog/internal/instrument"
)

const (
	engineName    = "sqlite"
	driverName    = "sqlite"
	dialectSQLite = "sqlite3"

	defaultBooksTableName        = "books"
	defaultReservationsTableName = "reservations"
	defaultUsersTableName        = "users"
	defaultEventsTableName       = "catalog_events"

	busyTimeoutMS = 5000

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

// Store represents a SQLite-backed catalog store and reservation ledger.
type Store struct {
	db              *sql.DB
	tables          tableNames
	instrumentation *instrument.Instrumentation
}

// DSN returns the connection string for a database file with WAL journaling and a busy timeout.
func DSN(path string) string {
	return fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeoutMS)
}

// OpenDB opens the database file at path, limited to a single connection.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return nil, errors.Join(catalog.ErrStorageUnavailable, err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db, nil
}

// NewStore creates a new Store using a sql.DB opened with the sqlite driver.
// The db should allow only one open connection, see OpenDB.
func NewStore(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, catalog.ErrNilDatabaseConnection
	}

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
func (s *Store) Migrate(ctx context.Context) (err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationMigrate, nil)
	defer func() { observation.Finish(err) }()

	ddl := schemaDDL(s.tables)
	start := time.Now()
	if _, err = s.db.ExecContext(ctx, ddl); err != nil {
		s.instrumentation.LogStatementError(ctx, logMsgDBExecFailed, err, ddl)

		return classifyError(err)
	}

	s.instrumentation.LogSQL(ctx, operationMigrate, "schema ddl", time.Since(start))
	s.instrumentation.LogOperation(ctx, logMsgMigrated, "books_table", s.tables.books)

	return nil
}

// WithinTransaction runs fn inside one database transaction.
// The transaction commits if fn returns nil and rolls back otherwise, also when ctx is canceled.
func (s *Store) WithinTransaction(ctx context.Context, fn catalog.TxFunc) (err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationTransaction, nil)
	defer func() { observation.Finish(err) }()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(errors.Join(catalog.ErrTransactionFailed, err))
	}

	defer func() {
		if rollbackErr := sqlTx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.instrumentation.LogWarning(ctx, logMsgRollbackFailed, rollbackErr)
		}
	}()

	if err = fn(ctx, &transaction{statements: s.statements(sqlTx)}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return classifyError(errors.Join(catalog.ErrTransactionFailed, err))
	}

	return nil
}

// GetBook reads a single book outside of a transaction.
func (s *Store) GetBook(ctx context.Context, bookID uuid.UUID) (book catalog.Book, err error) {
	observation, ctx := s.instrumentation.Start(ctx, operationGetBook, nil)
	defer func() { observation.Finish(err) }()

	return s.statements(s.db).getBook(ctx, bookID)
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

	return s.statements(s.db).getReservation(ctx, reservationID)
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

func (s *Store) statements(db querier) statements {
	return statements{
		db:              db,
		tables:          s.tables,
		instrumentation: s.instrumentation,
	}
}

func schemaDDL(tables tableNames) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	author           TEXT NOT NULL,
	genre            TEXT,
	publication_year INTEGER,
	description      TEXT,
	cover_ref        TEXT,
	quantity         INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)
);

CREATE TABLE IF NOT EXISTS %[2]s (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	book_id          TEXT NOT NULL,
	reservation_date INTEGER NOT NULL,
	status           TEXT NOT NULL CHECK (status IN ('active', 'canceled'))
);

CREATE INDEX IF NOT EXISTS %[2]s_user_date_idx ON %[2]s (user_id, reservation_date DESC);
CREATE INDEX IF NOT EXISTS %[2]s_book_status_idx ON %[2]s (book_id, status);

CREATE TABLE IF NOT EXISTS %[3]s (
	id       TEXT PRIMARY KEY,
	username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS %[4]s (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	event_type   TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	occurred_at  INTEGER NOT NULL,
	payload      TEXT NOT NULL,
	published_at INTEGER
);

CREATE INDEX IF NOT EXISTS %[4]s_pending_idx ON %[4]s (published_at, seq);
`, tables.books, tables.reservations, tables.users, tables.events)
}

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectSQLite)
}

func toUnixMicro(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromUnixMicro(micros int64) time.Time {
	return time.UnixMicro(micros).UTC()
}
