package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

// TxEventRecorder decorates a store and records every domain event of committed transactions.
// Events appended in a rolled back transaction are discarded.
type TxEventRecorder struct {
	store  TxRunner
	mu     sync.Mutex
	events []catalog.DomainEvent
}

func NewTxEventRecorder(store TxRunner) *TxEventRecorder {
	return &TxEventRecorder{store: store}
}

func (r *TxEventRecorder) WithinTransaction(ctx context.Context, fn catalog.TxFunc) error {
	var appended []catalog.DomainEvent

	err := r.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
		appended = nil

		return fn(ctx, &recordingTx{Tx: tx, appended: &appended})
	})

	if err == nil {
		r.mu.Lock()
		r.events = append(r.events, appended...)
		r.mu.Unlock()
	}

	return err
}

func (r *TxEventRecorder) RecordedEvents() []catalog.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]catalog.DomainEvent, len(r.events))
	copy(result, r.events)

	return result
}

// RecordedEventTypes returns the event types in commit order.
func (r *TxEventRecorder) RecordedEventTypes() []string {
	events := r.RecordedEvents()
	eventTypes := make([]string, 0, len(events))

	for _, event := range events {
		eventTypes = append(eventTypes, event.EventType)
	}

	return eventTypes
}

type recordingTx struct {
	catalog.Tx
	appended *[]catalog.DomainEvent
}

func (tx *recordingTx) AppendEvent(ctx context.Context, event catalog.DomainEvent) error {
	if err := tx.Tx.AppendEvent(ctx, event); err != nil {
		return err
	}

	*tx.appended = append(*tx.appended, event)

	return nil
}
