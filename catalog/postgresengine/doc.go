// Package postgresengine provides a PostgreSQL implementation of the catalog store and reservation ledger.
//
// It supports three database libraries (pgx.Pool, sql.DB via lib/pq, sqlx.DB) through the internal
// adapters and builds all statements with goqu.
//
// Consistency:
//   - quantity changes are conditional updates (quantity + delta >= 0) returning the new value,
//     backed by a CHECK constraint, so concurrent reservations of the last copy cannot both succeed
//   - reservation rows are read with FOR UPDATE inside transactions, so concurrent cancellations
//     of the same reservation are serialized and only one restores a copy
//   - every failure path rolls the transaction back, including context cancellation
//
// Lock timeouts, deadlocks and serialization failures surface as catalog.ErrTransientContention,
// connection failures as catalog.ErrStorageUnavailable.
//
// Usage:
//
//	pool, _ := pgxpool.NewWithConfig(ctx, poolConfig)
//	store, _ := postgresengine.NewStoreFromPGXPool(
//		pool,
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.Migrate(ctx)
//
//	err := store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
//		_, err := tx.AdjustQuantity(ctx, bookID, -1)
//		return err
//	})
package postgresengine
