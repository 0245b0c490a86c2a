package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog/internal/instrument"
	"github.com/AntonStoeckl/library-reservations-go/catalog/postgresengine/internal/adapters"
)

const castUUID = "?::uuid"

const (
	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgDBQueryFailed      = "database query failed"
	logMsgDBExecFailed       = "database exec failed"
	logMsgRowsAffectedFailed = "failed to read rows affected"
)

var errBuildingQueryFailed = errors.New("building query failed")

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

// statements executes the engine's SQL against either the pool or an open transaction.
type statements struct {
	db              adapters.Querier
	tables          tableNames
	instrumentation *instrument.Instrumentation
}

func (st statements) query(ctx context.Context, action string, builder sqlBuilder) (adapters.DBRows, error) {
	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		st.instrumentation.LogError(ctx, logMsgBuildQueryFailed, err, instrument.AttrOperation, action)

		return nil, errors.Join(errBuildingQueryFailed, err)
	}

	start := time.Now()
	rows, err := st.db.Query(ctx, sqlQuery, args...)
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
	result, err := st.db.Exec(ctx, sqlQuery, args...)
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

func (st statements) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		st.instrumentation.LogWarning(ctx, logMsgCloseRows, err)
	}
}

func uuidParam(id uuid.UUID) exp.LiteralExpression {
	return goqu.L(castUUID, id.String())
}
