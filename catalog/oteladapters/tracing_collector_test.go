package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-reservations-go/catalog/oteladapters"
	. "github.com/AntonStoeckl/library-reservations-go/testutil/helper" //nolint:revive
)

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()

	// act
	ctx, span := collector.StartSpan(context.Background(), "catalog.adjust_quantity", map[string]string{
		"operation": "adjust_quantity",
		"table":     "books",
	})
	span.AddAttribute("book_id", "b-1")
	collector.FinishSpan(span, "success", map[string]string{"quantity": "2"})

	// assert
	require.NotNil(t, ctx)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	recorded := spans[0]
	assert.Equal(t, "catalog.adjust_quantity", recorded.Name)
	assert.Equal(t, codes.Ok, recorded.Status.Code)
	assertSpanAttribute(t, recorded, "operation", "adjust_quantity")
	assertSpanAttribute(t, recorded, "table", "books")
	assertSpanAttribute(t, recorded, "book_id", "b-1")
	assertSpanAttribute(t, recorded, "quantity", "2")
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
	}{
		{"success", codes.Ok},
		{"rejected", codes.Unset},
		{"error", codes.Error},
		{"canceled", codes.Error},
		{"timeout", codes.Error},
		{"something else", codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			exporter, collector := newTracingCollector()
			_, span := collector.StartSpan(context.Background(), "commandhandler.handle", nil)

			// act
			collector.FinishSpan(span, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_RejectedRecordsOutcome(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()
	_, span := collector.StartSpan(context.Background(), "commandhandler.handle", nil)

	// act
	collector.FinishSpan(span, "rejected", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assertSpanAttribute(t, spans[0], "outcome", "rejected")
}

func Test_TracingCollector_NestsSpans(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()

	// act
	ctx, parent := collector.StartSpan(context.Background(), "commandhandler.handle", nil)
	_, child := collector.StartSpan(ctx, "catalog.insert_reservation", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
}

func Test_TracingCollector_IgnoresForeignSpanContexts(t *testing.T) {
	// arrange
	exporter, collector := newTracingCollector()
	_, foreign := NewTracingCollectorSpy(false).StartSpan(context.Background(), "spy", nil)

	// act + assert
	assert.NotPanics(t, func() {
		collector.FinishSpan(foreign, "success", nil)
	})
	assert.Empty(t, exporter.GetSpans())
}

func newTracingCollector() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

func assertSpanAttribute(t *testing.T, span tracetest.SpanStub, key, value string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, value, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	assert.Failf(t, "attribute not found", "span %s has no attribute %s", span.Name, key)
}
