package observable_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/observable"
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper" //nolint:revive
)

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	handler := mockQueryHandler{result: mockQueryResult{Count: 3}}
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
		observable.WithQueryTracing[mockQuery, mockQueryResult](tracingCollector),
		observable.WithQueryContextualLogging[mockQuery, mockQueryResult](contextualLogger),
	)
	assert.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Count)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.QueryHandlerDurationMetric).Assert())
	assert.True(t, tracingCollector.HasSpanRecord(shell.SpanNameQueryHandle, shell.StatusSuccess))
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgQueryStarted))
	assert.True(t, contextualLogger.HasInfoLog(shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_Forbidden_IsRecordedAsRejected(t *testing.T) {
	// arrange
	handler := mockQueryHandler{err: catalog.ErrForbidden}
	metricsCollector := NewMetricsCollectorSpy(true)
	logHandler := NewLogHandlerSpy(false)

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
		observable.WithQueryLogging[mockQuery, mockQueryResult](newSlogLogger(logHandler)),
	)
	assert.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, catalog.ErrForbidden)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithStatus(shell.StatusRejected).
		Assert())
	assert.True(t, logHandler.HasInfoLog(shell.LogMsgQueryRejected))
}

func Test_QueryWrapper_Handle_Timeout(t *testing.T) {
	// arrange
	handler := mockQueryHandler{err: context.DeadlineExceeded}
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
	)
	assert.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerTimeoutMetric).Assert())
}

/*** Test doubles ***/

type mockQuery struct{}

func (q mockQuery) QueryType() string {
	return "TestQuery"
}

type mockQueryResult struct {
	Count int
}

type mockQueryHandler struct {
	result mockQueryResult
	err    error
}

func (h mockQueryHandler) Handle(_ context.Context, _ mockQuery) (mockQueryResult, error) {
	return h.result, h.err
}

func newSlogLogger(handler slog.Handler) *slog.Logger {
	return slog.New(handler)
}
