package sqliteengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	colSeq         = "seq"
	colEventType   = "event_type"
	colAggregateID = "aggregate_id"
	colOccurredAt  = "occurred_at"
	colPayload     = "payload"
	colPublishedAt = "published_at"
)

var errScanningEventFailed = errors.New("scanning outbox event row failed")

func (st statements) appendEvent(ctx context.Context, event catalog.DomainEvent) error {
	ds := dialect().Insert(goqu.T(st.tables.events)).Prepared(true).
		Rows(goqu.Record{
			colID:          event.ID.String(),
			colEventType:   event.EventType,
			colAggregateID: event.AggregateID.String(),
			colOccurredAt:  toUnixMicro(event.OccurredAt),
			colPayload:     string(event.Payload),
		})

	_, err := st.exec(ctx, operationAppendEvent, ds)

	return err
}

func (st statements) pendingEvents(ctx context.Context, limit int) ([]catalog.DomainEvent, error) {
	if limit <= 0 {
		return []catalog.DomainEvent{}, nil
	}

	ds := dialect().From(goqu.T(st.tables.events)).Prepared(true).
		Select(
			goqu.C(colID),
			goqu.C(colEventType),
			goqu.C(colAggregateID),
			goqu.C(colOccurredAt),
			goqu.C(colPayload),
		).
		Where(goqu.C(colPublishedAt).IsNull()).
		Order(goqu.C(colSeq).Asc()).
		Limit(uint(limit))

	rows, err := st.query(ctx, operationPendingEvents, ds)
	if err != nil {
		return nil, err
	}
	defer st.closeRows(ctx, rows)

	events := make([]catalog.DomainEvent, 0)
	for rows.Next() {
		var (
			event   catalog.DomainEvent
			micros  int64
			payload string
		)

		if err = rows.Scan(&event.ID, &event.EventType, &event.AggregateID, &micros, &payload); err != nil {
			return nil, errors.Join(errScanningEventFailed, err)
		}

		event.OccurredAt = fromUnixMicro(micros)
		event.Payload = []byte(payload)
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyError(err)
	}

	return events, nil
}

func (st statements) markEventPublished(ctx context.Context, eventID uuid.UUID) error {
	ds := dialect().Update(goqu.T(st.tables.events)).Prepared(true).
		Set(goqu.Record{colPublishedAt: toUnixMicro(time.Now())}).
		Where(goqu.C(colID).Eq(eventID.String()))

	_, err := st.exec(ctx, operationMarkEventsPublished, ds)

	return err
}
