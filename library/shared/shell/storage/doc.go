// Package storage opens the catalog store selected by the configuration.
//
// Both engines, postgresengine (pgx.Pool, sql.DB or sqlx.DB) and sqliteengine, satisfy the
// Store interface, so command and query handlers as well as the tools in cmd/ stay
// independent of the concrete engine and driver.
package storage
