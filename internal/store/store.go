package store

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

var (
	// ErrValidation reports caller-supplied data the store refuses, such as a
	// negative score.
	ErrValidation = errors.New("validation failed")

	// ErrConflict reports that a team is already committed to another match,
	// or that the exact match already exists.
	ErrConflict = errors.New("conflict")

	// ErrNotFound reports an identity that is not currently active.
	ErrNotFound = errors.New("match not found")

	// ErrConcurrencyConflict reports an optimistic update that lost a race.
	ErrConcurrencyConflict = errors.New("match was modified concurrently, please retry")
)

// Identity is the canonical key of a match.
//
// Two identities are equal iff their case-folded team name sets are equal, so
// the order in which home and away are given does not matter. Identity is
// comparable and safe to use as a map key.
type Identity struct {
	first  string
	second string
}

// NewIdentity builds the canonical identity for a pairing of two teams.
func NewIdentity(home, away string) Identity {
	a, b := FoldTeam(home), FoldTeam(away)
	if b < a {
		a, b = b, a
	}
	return Identity{first: a, second: b}
}

// Teams returns the two folded team names in canonical order.
func (id Identity) Teams() (string, string) {
	return id.first, id.second
}

// IsZero reports whether id was never constructed.
func (id Identity) IsZero() bool {
	return id.first == "" && id.second == ""
}

// String returns a stable human-readable form, e.g. "brazil:spain".
func (id Identity) String() string {
	return id.first + ":" + id.second
}

// FoldTeam returns the case-folded form of a team name used for every
// case-insensitive comparison in the store.
//
// A new Caser is created per call because cases.Caser is not safe for
// concurrent use.
func FoldTeam(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Match is an immutable snapshot of one active match.
//
// A Match is a comparable value: the store uses equality against the value a
// caller last observed to detect interleaved writers. Seq is assigned once at
// start and orders matches by creation; Version increases on every accepted
// score change.
type Match struct {
	ID        Identity
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Seq       uint64
	Version   uint64
}

// Total returns the combined score of both teams.
//
// Returns an error wrapping [ErrValidation] if the sum does not fit in an int.
func (m Match) Total() (int, error) {
	if m.HomeScore > math.MaxInt-m.AwayScore {
		return 0, fmt.Errorf("%w: total score of %s overflows", ErrValidation, m.ID)
	}
	return m.HomeScore + m.AwayScore, nil
}

// Record projects the match to its summary form.
func (m Match) Record() Record {
	return Record{
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
	}
}

// withScore returns a new version of m carrying the given scores.
func (m Match) withScore(home, away int) Match {
	next := m
	next.HomeScore = home
	next.AwayScore = away
	next.Version = m.Version + 1
	return next
}

// Record is the summary representation of a match.
type Record struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// EventKind names the mutation that produced an [Event].
type EventKind string

const (
	// EventStarted is emitted after a match is registered.
	EventStarted EventKind = "started"

	// EventUpdated is emitted after a score replacement is accepted.
	EventUpdated EventKind = "updated"

	// EventFinished is emitted after a match is removed.
	EventFinished EventKind = "finished"
)

// Event describes one successful mutation of the store.
//
// Match holds the state after the mutation, or the removed state for
// [EventFinished].
type Event struct {
	Kind  EventKind
	Match Match
}

// Store defines the operations of the match registry.
//
// Store implementations must be safe for concurrent access. Mutations are
// atomic per match identity and its two team reservations.
type Store interface {
	// Start registers a new match with a 0-0 score.
	// Fails with ErrConflict if either team is already playing or the
	// identity is already active.
	Start(home, away string) (Match, error)

	// Get returns the current state of the match.
	Get(id Identity) (Match, error)

	// CompareAndSwapScore replaces observed with a new version carrying the
	// given scores, provided observed is still the current state.
	CompareAndSwapScore(observed Match, home, away int) (Match, error)

	// UpdateScore reads the current state and replaces it once.
	UpdateScore(id Identity, home, away int) (Match, error)

	// Finish removes the match and releases both teams.
	Finish(id Identity) (Match, error)

	// Snapshot returns a copy of all active matches. The set of matches is
	// consistent; each match is current at the moment it was read.
	// Order is not guaranteed.
	Snapshot() []Match

	// OnChange registers a hook invoked synchronously after every
	// successful mutation.
	OnChange(fn func(Event))

	// Subscribe returns a channel receiving mutation events.
	// Slow consumers may miss events.
	Subscribe() <-chan Event

	// Unsubscribe removes a subscription and closes the channel.
	Unsubscribe(ch <-chan Event)
}
