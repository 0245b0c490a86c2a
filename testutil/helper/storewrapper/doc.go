// Package storewrapper provides test utilities for running the same tests against every engine and driver.
//
// The engine is selected by the ADAPTER_TYPE environment variable:
//
//   - "sqlite" (default): a fresh database file in the test's temp directory
//   - "pgx.pool", "sql.db", "sqlx.db": the PostgreSQL database at LIBRARY_TEST_DB_DSN
//
// PostgreSQL based tests are skipped when the database cannot be reached.
//
// Usage:
//
//	wrapper := CreateWrapperWithTestConfig(t)
//	defer wrapper.Close()
//
//	store := wrapper.GetStore()
package storewrapper
