// Package config provides environment driven configuration and database connection factories
// for the library reservation engine.
//
// Settings are read from the process environment, optionally seeded from a .env file.
// The factory functions create pre-configured connections for the supported drivers
// (pgx.Pool, sql.DB, sqlx.DB for PostgreSQL and an embedded SQLite file), plus the
// OpenTelemetry providers used by the commands in cmd/.
//
// This package is part of the shell (infrastructure) layer.
package config
