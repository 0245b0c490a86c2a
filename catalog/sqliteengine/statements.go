package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-reservations-go/catalog/internal/instrument"
)

const (
	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgDBQueryFailed      = "database query failed"
	logMsgDBExecFailed       = "database exec failed"
	logMsgRowsAffectedFailed = "failed to read rows affected"
)

var errBuildingQueryFailed = errors.New("building query failed")

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

// statements executes the engine's SQL against either the database or an open transaction.
type statements struct {
	db              querier
	tables          tableNames
	instrumentation *instrument.Instrumentation
}

func (st statements) query(ctx context.Context, action string, builder sqlBuilder) (*sql.Rows, error) {
	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		st.instrumentation.LogError(ctx, logMsgBuildQueryFailed, err, instrument.AttrOperation, action)

		return nil, errors.Join(errBuildingQueryFailed, err)
	}

	start := time.Now()
	rows, err := st.db.QueryContext(ctx, sqlQuery, args...)
	st.instrumentation.LogSQL(ctx, action, sqlQuery, time.Since(start))

	if err != nil {
		st.instrumentation.LogStatementError(ctx, logMsgDBQueryFailed, err, sqlQuery)

		return nil, classifyError(err)
	}

	return rows, nil
}

func (st statements) exec(ctx context.Context, action string, builder sqlBuilder) (int64, error) {
	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		st.instrumentation.LogError(ctx, logMsgBuildQueryFailed, err, instrument.AttrOperation, action)

		return 0, errors.Join(errBuildingQueryFailed, err)
	}

	start := time.Now()
	result, err := st.db.ExecContext(ctx, sqlQuery, args...)
	st.instrumentation.LogSQL(ctx, action, sqlQuery, time.Since(start))

	if err != nil {
		st.instrumentation.LogStatementError(ctx, logMsgDBExecFailed, err, sqlQuery)

		return 0, classifyError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		st.instrumentation.LogStatementError(ctx, logMsgRowsAffectedFailed, err, sqlQuery)

		return 0, classifyError(err)
	}

	return rowsAffected, nil
}

func (st statements) closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		st.instrumentation.LogWarning(ctx, logMsgCloseRows, err)
	}
}
