// Package reservebook implements the Reserve Book use case.
//
// An authenticated user reserves one copy of a book. The book row is locked, the pure Decide
// function checks availability, then the available quantity is decremented and an active
// reservation is inserted, both in the same transaction. Losing the race for the last copy
// to a concurrent request is reported as catalog.ErrOutOfStock, never as a partial commit.
//
// Besides catalog.ErrOutOfStock and catalog.ErrBookNotFound the handler returns
// catalog.ErrForbidden for a command without a user id. Authentication happens before the
// handler is called, so this only fires for callers that skipped it.
package reservebook
