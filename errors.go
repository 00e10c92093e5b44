package scoreboard

import "github.com/jpalmerr/scoreboard/internal/store"

// Errors returned by [Scoreboard] operations. Use [errors.Is] to test for
// them; returned errors carry additional context.
var (
	// ErrValidation reports input the scoreboard refuses: an invalid team
	// name, a team playing itself, a negative score or an overflowing total.
	// Never worth retrying with the same input.
	ErrValidation = store.ErrValidation

	// ErrConflict reports that a team is already playing another match, or
	// that the same match is already in progress.
	ErrConflict = store.ErrConflict

	// ErrNotFound reports a match that is not currently in progress.
	ErrNotFound = store.ErrNotFound

	// ErrConcurrencyConflict reports an optimistic update that lost a race
	// with another writer. Re-read the match and resubmit.
	ErrConcurrencyConflict = store.ErrConcurrencyConflict
)
