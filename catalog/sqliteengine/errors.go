package sqliteengine

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const primaryResultCodeMask = 0xff

// classifyError maps sqlite result codes to the catalog's storage error categories.
// The original error stays in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()

		switch code & primaryResultCodeMask {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return errors.Join(catalog.ErrTransientContention, err)

		case sqlite3.SQLITE_CONSTRAINT:
			if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
				return err
			}

			return errors.Join(catalog.ErrConstraintViolation, err)

		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB:
			return errors.Join(catalog.ErrStorageUnavailable, err)
		}
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return errors.Join(catalog.ErrStorageUnavailable, err)
	}

	return err
}
