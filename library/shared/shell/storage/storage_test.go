package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/config"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/storage"
)

func Test_Open_SQLite_MigratesAndServesTransactions(t *testing.T) {
	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Config{
		AdapterType: config.AdapterTypeSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "library.db"),
	}

	// act
	connection, err := storage.Open(ctx, cfg, storage.Observability{})

	// assert
	require.NoError(t, err)
	defer connection.Close()

	fields := catalog.BuildBookFields("Dune", "Frank Herbert", "", 0, "", "", 2)
	err = connection.Store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		_, createErr := tx.CreateBook(ctx, fields)
		return createErr
	})
	assert.NoError(t, err)

	books, err := connection.Store.ListBooks(ctx)
	assert.NoError(t, err)
	assert.Len(t, books, 1)
}

func Test_Open_RejectsUnknownAdapterType(t *testing.T) {
	// act
	_, err := storage.Open(context.Background(), config.Config{AdapterType: "mysql"}, storage.Observability{})

	// assert
	assert.ErrorIs(t, err, config.ErrUnknownAdapterType)
}
