package postgresengine

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateCheckViolation       = "23514"
	sqlStateClassConnection      = "08"
	sqlStateAdminShutdown        = "57P01"
	sqlStateCannotConnectNow     = "57P03"
)

// classifyError maps driver errors of pgx and lib/pq to the catalog's storage error categories.
// The original error stays in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch code := sqlState(err); {
	case code == sqlStateSerializationFailure, code == sqlStateDeadlockDetected, code == sqlStateLockNotAvailable:
		return errors.Join(catalog.ErrTransientContention, err)

	case code == sqlStateCheckViolation:
		return errors.Join(catalog.ErrConstraintViolation, err)

	case strings.HasPrefix(code, sqlStateClassConnection),
		code == sqlStateAdminShutdown,
		code == sqlStateCannotConnectNow,
		isConnectionError(err):

		return errors.Join(catalog.ErrStorageUnavailable, err)
	}

	return err
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

func isConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone)
}
