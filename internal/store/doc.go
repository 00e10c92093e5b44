// Package store provides the concurrent match registry behind the scoreboard.
//
// This package is internal to the scoreboard and owns the authoritative set of
// active matches. It enforces that a team plays at most one match at a time and
// replaces match state with compare-and-swap so concurrent writers never lose
// each other's updates.
//
// The main components are:
//
//   - [Identity]: Canonical, case-insensitive, order-independent match key
//   - [Match]: Immutable snapshot of one active match
//   - [MemoryStore]: In-memory registry with team reservations and pub/sub
//
// Every error returned by the store wraps one of [ErrValidation],
// [ErrConflict], [ErrNotFound] or [ErrConcurrencyConflict]. The store never
// retries internally; a caller seeing [ErrConcurrencyConflict] re-reads and
// resubmits.
//
// Users of the scoreboard library should not need to interact with this
// package directly. Storage is managed internally by the Scoreboard.
package store
