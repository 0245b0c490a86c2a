package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// SpySpanContext is the SpanContext handed out by TracingCollectorSpy.
type SpySpanContext struct {
	name       string
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

// SetStatus implements catalog.SpanContext.
func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

// AddAttribute implements catalog.SpanContext.
func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

// SpySpanRecord represents a finished span.
type SpySpanRecord struct {
	Name            string
	Status          string
	StartAttributes map[string]string
	EndAttributes   map[string]string
}

// TracingCollectorSpy is a TracingCollector implementation that captures spans for testing.
type TracingCollectorSpy struct {
	records     []SpySpanRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

// StartSpan implements catalog.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, catalog.SpanContext) {

	attributes := make(map[string]string, len(attrs))
	maps.Copy(attributes, attrs)

	return ctx, &SpySpanContext{name: name, attributes: attributes}
}

// FinishSpan implements catalog.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(spanCtx catalog.SpanContext, status string, attrs map[string]string) {
	if !s.recordCalls {
		return
	}

	span, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	span.mu.Lock()
	startAttrs := maps.Clone(span.attributes)
	span.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpySpanRecord{
		Name:            span.name,
		Status:          status,
		StartAttributes: startAttrs,
		EndAttributes:   maps.Clone(attrs),
	})
}

// GetSpanRecordCount returns the number of finished spans.
func (s *TracingCollectorSpy) GetSpanRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// GetSpanRecords returns a copy of all finished spans.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpySpanRecord, len(s.records))
	copy(records, s.records)

	return records
}

// HasSpanRecord checks if a span with the given name and status was finished.
func (s *TracingCollectorSpy) HasSpanRecord(name, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Name == name && record.Status == status {
			return true
		}
	}

	return false
}
