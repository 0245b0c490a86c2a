package postgresengine

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
			colID:          uuidParam(event.ID),
			colEventType:   event.EventType,
			colAggregateID: uuidParam(event.AggregateID),
			colOccurredAt:  event.OccurredAt.UTC(),
			colPayload:     goqu.L("?::jsonb", string(event.Payload)),
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
			goqu.L("id::text"),
			goqu.C(colEventType),
			goqu.L("aggregate_id::text"),
			goqu.C(colOccurredAt),
			goqu.L("payload::text"),
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
			idText, aggregateText, payload string
			event                          catalog.DomainEvent
			occurredAt                     time.Time
		)

		if err = rows.Scan(&idText, &event.EventType, &aggregateText, &occurredAt, &payload); err != nil {
			return nil, errors.Join(errScanningEventFailed, err)
		}

		if event.ID, err = uuid.Parse(idText); err != nil {
			return nil, errors.Join(errInvalidStoredUUID, err)
		}

		if event.AggregateID, err = uuid.Parse(aggregateText); err != nil {
			return nil, errors.Join(errInvalidStoredUUID, err)
		}

		event.OccurredAt = occurredAt.UTC()
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
		Set(goqu.Record{colPublishedAt: goqu.L("now()")}).
		Where(goqu.C(colID).Eq(uuidParam(eventID)))

	_, err := st.exec(ctx, operationMarkEventsPublished, ds)

	return err
}
