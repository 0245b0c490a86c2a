// Package adapters provide database adapter implementations for the PostgreSQL catalog store.
//
// It supports three PostgreSQL database libraries: pgx.Pool, sql.DB, and sqlx.DB.
// All adapters offer the same query, exec and transaction functionality through the
// DBAdapter interface, so the store works with any supported connection type.
package adapters
