// Package catalog holds the storage-agnostic core of the library reservation engine.
//
// It defines the Book and Reservation aggregates, the reservation state machine,
// the single authorization predicates, the search filter and its matching rules,
// the pagination contract, the domain events written to the outbox, and the
// transactional contract (Tx) that storage engines implement.
//
// Storage engines live in sub-packages (postgresengine, sqliteengine). They must keep
// the conservation law intact: for every book, quantity plus the number of its active
// reservations stays equal to its stocked amount, and quantity never goes negative.
package catalog
