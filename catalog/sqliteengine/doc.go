// Package sqliteengine provides an embedded SQLite implementation of the catalog store and
// reservation ledger, using the pure Go modernc.org/sqlite driver.
//
// The database handle is limited to a single open connection, so all transactions of one process
// are serialized. Quantity changes are conditional updates guarded by a CHECK constraint, the same
// as in the PostgreSQL engine. Row locks do not exist in SQLite; the single writer takes their place.
//
// Identifiers are stored as canonical UUID text, timestamps as INTEGER unix microseconds (UTC).
//
// Usage:
//
//	db, _ := sqliteengine.OpenDB("library.db")
//	store, _ := sqliteengine.NewStore(db, sqliteengine.WithLogger(slog.Default()))
//	_ = store.Migrate(ctx)
package sqliteengine
