package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

const (
	metricEventsPublished = "outbox_events_published_total"
	metricPublishErrors   = "outbox_publish_errors_total"
	metricRelayDuration   = "outbox_relay_duration_seconds"

	labelEventType = "event_type"
	labelErrorType = "error_type"

	logMsgRelayStarted    = "outbox relay started"
	logMsgRelayStopped    = "outbox relay stopped"
	logMsgEventPublished  = "outbox event published"
	logMsgBatchPublished  = "outbox batch published"
	logMsgOutboxDrained   = "outbox drained"
	logMsgPublishFailed   = "publishing outbox event failed"
	logMsgMarkFailed      = "marking outbox event as published failed"
	logMsgLoadFailed      = "loading pending outbox events failed"
	logAttrEventID        = "event_id"
	logAttrEventType      = "event_type"
	logAttrError          = "error"
	logAttrInterval       = "interval"
	logAttrPublishedCount = "published"
)

var (
	// ErrNilSource is returned when the relay is created without an event source.
	ErrNilSource = errors.New("outbox source must not be nil")

	// ErrNilPublisher is returned when the relay is created without a publisher.
	ErrNilPublisher = errors.New("outbox publisher must not be nil")

	// ErrInvalidRelaySetting is returned for a non-positive interval or batch size.
	ErrInvalidRelaySetting = errors.New("invalid outbox relay setting")
)

// Source is the outbox table of a storage engine.
type Source interface {
	PendingEvents(ctx context.Context, limit int) ([]catalog.DomainEvent, error)
	MarkEventPublished(ctx context.Context, eventID uuid.UUID) error
}

// Publisher delivers one event to the broker. A nil error means the event was handed over to the broker.
type Publisher interface {
	Publish(ctx context.Context, event catalog.DomainEvent) error
}

// Relay moves events from a Source to a Publisher.
type Relay struct {
	source           Source
	publisher        Publisher
	interval         time.Duration
	batchSize        int
	logger           catalog.Logger
	contextualLogger catalog.ContextualLogger
	metrics          catalog.MetricsCollector
}

// Option configures a Relay.
type Option func(*Relay) error

// WithInterval sets the polling interval.
func WithInterval(interval time.Duration) Option {
	return func(r *Relay) error {
		if interval <= 0 {
			return ErrInvalidRelaySetting
		}

		r.interval = interval

		return nil
	}
}

// WithBatchSize sets how many events are loaded per round.
func WithBatchSize(size int) Option {
	return func(r *Relay) error {
		if size < 1 {
			return ErrInvalidRelaySetting
		}

		r.batchSize = size

		return nil
	}
}

// WithLogger sets the logger, the contextual logger is preferred if both are set.
func WithLogger(logger catalog.Logger) Option {
	return func(r *Relay) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger.
func WithContextualLogger(logger catalog.ContextualLogger) Option {
	return func(r *Relay) error {
		r.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(r *Relay) error {
		r.metrics = collector
		return nil
	}
}

// NewRelay creates a Relay with a one-second interval and batches of 100 events unless configured otherwise.
func NewRelay(source Source, publisher Publisher, options ...Option) (*Relay, error) {
	if source == nil {
		return nil, ErrNilSource
	}

	if publisher == nil {
		return nil, ErrNilPublisher
	}

	relay := &Relay{
		source:    source,
		publisher: publisher,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}

	for _, option := range options {
		if err := option(relay); err != nil {
			return nil, err
		}
	}

	return relay, nil
}

// Run relays on every tick until ctx is done. Failures are logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logInfo(ctx, logMsgRelayStarted, logAttrInterval, r.interval.String())

	for {
		select {
		case <-ctx.Done():
			r.logInfo(ctx, logMsgRelayStopped)
			return
		case <-ticker.C:
			if published, err := r.Drain(ctx); err == nil && published > 0 {
				r.logDebug(ctx, logMsgOutboxDrained, logAttrPublishedCount, published)
			}
		}
	}
}

// Drain relays full batches until the outbox is empty or a round fails.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	total := 0

	for {
		published, err := r.RelayOnce(ctx)
		total += published

		if err != nil || published < r.batchSize {
			return total, err
		}
	}
}

// RelayOnce publishes one batch in append order and returns how many events were published.
// It stops at the first event that cannot be published or marked.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.RecordDuration(metricRelayDuration, time.Since(start), nil)
		}
	}()

	events, err := r.source.PendingEvents(ctx, r.batchSize)
	if err != nil {
		r.logError(ctx, logMsgLoadFailed, logAttrError, err.Error())
		return 0, err
	}

	for i, event := range events {
		if err = r.publisher.Publish(ctx, event); err != nil {
			r.recordFailure(ctx, logMsgPublishFailed, event, err)
			return i, err
		}

		if err = r.source.MarkEventPublished(ctx, event.ID); err != nil {
			r.recordFailure(ctx, logMsgMarkFailed, event, err)
			return i, err
		}

		if r.metrics != nil {
			r.metrics.IncrementCounter(metricEventsPublished, map[string]string{labelEventType: event.EventType})
		}

		r.logDebug(ctx, logMsgEventPublished, logAttrEventID, event.ID.String(), logAttrEventType, event.EventType)
	}

	if len(events) > 0 {
		r.logInfo(ctx, logMsgBatchPublished, logAttrPublishedCount, len(events))
	}

	return len(events), nil
}

func (r *Relay) recordFailure(ctx context.Context, msg string, event catalog.DomainEvent, err error) {
	if r.metrics != nil {
		r.metrics.IncrementCounter(metricPublishErrors, map[string]string{
			labelEventType: event.EventType,
			labelErrorType: catalog.ErrorType(err),
		})
	}

	r.logError(ctx, msg, logAttrEventID, event.ID.String(), logAttrEventType, event.EventType, logAttrError, err.Error())
}

func (r *Relay) logDebug(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}

	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Relay) logInfo(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *Relay) logError(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, msg, args...)
		return
	}

	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}
