// Package outbox relays the domain events written by the storage engines to a message broker.
//
// Command handlers append one event per state change inside the same transaction as the change
// itself. The Relay polls the unpublished events in append order, hands them to a Publisher and
// marks them as published afterward. A failed publish stops the batch, so the order per outbox
// is preserved and the event is retried on the next tick. Delivery is at-least-once:
// consumers must tolerate duplicates, the event id identifies them.
package outbox
