package zerologadapter_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/library-reservations-go/catalog/zerologadapter"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Test_Logger_WritesFieldsAsJSON(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := zerologadapter.New(zerolog.New(&buf))

	// act
	logger.Info("quantity adjusted", "book_id", "b-1", "quantity", 2, "error", errors.New("none"))

	// assert
	entry := decodeSingleEntry(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "quantity adjusted", entry["message"])
	assert.Equal(t, "b-1", entry["book_id"])
	assert.InDelta(t, 2.0, entry["quantity"], 0.0001)
	assert.Equal(t, "none", entry["error"])
}

func Test_Logger_RespectsLevel(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := zerologadapter.New(zerolog.New(&buf).Level(zerolog.WarnLevel))

	// act
	logger.Debug("hidden")
	logger.InfoContext(context.Background(), "hidden as well")
	logger.Warn("shown")
	logger.ErrorContext(context.Background(), "shown as well")

	// assert
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"warn"`)
	assert.Contains(t, lines[1], `"level":"error"`)
}

func Test_Logger_DropsMalformedArgs(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := zerologadapter.New(zerolog.New(&buf))

	// act
	logger.Warn("rollback failed", 42, "not a key", "dangling")

	// assert
	entry := decodeSingleEntry(t, &buf)
	assert.Len(t, entry, 2, "only level and message expected, got %v", entry)
}

func Test_Logger_AddsTraceCorrelation(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := zerologadapter.New(zerolog.New(&buf))

	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, span := provider.Tracer("test").Start(context.Background(), "reserve")
	defer span.End()

	// act
	logger.InfoContext(ctx, "reservation created")

	// assert
	entry := decodeSingleEntry(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func decodeSingleEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))

	return entry
}
