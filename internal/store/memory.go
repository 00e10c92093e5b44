package store

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// subscriberBuffer is the channel capacity handed to each subscriber.
const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// Matches live in a [sync.Map] keyed by [Identity] and are replaced with
// CompareAndSwap, so score updates never take a lock. Team reservations live
// in a second map keyed by the folded team name. Start and Finish touch three
// related entries (two teams and one identity) and serialize on a short-held
// reservation mutex so no partial reservation is ever visible.
//
// Mutation events go to hooks registered with [MemoryStore.OnChange] first
// (synchronously) and then to subscribers via buffered channels (buffer size
// 100). Subscriber sends are non-blocking; a full buffer drops the event for
// that subscriber.
type MemoryStore struct {
	matches sync.Map // Identity -> Match
	teams   sync.Map // folded team name -> Identity

	reserveMu sync.Mutex
	seq       atomic.Uint64

	hooksMu sync.RWMutex
	hooks   []func(Event)

	subscribers map[chan Event]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory [Store] implementation.
//
// The store is immediately ready for use. No cleanup is required when done.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Start registers a new match between home and away with a 0-0 score.
//
// Both team reservations and the identity slot are claimed under the
// reservation mutex. If any claim fails, the ones already made are rolled
// back before the mutex is released.
func (m *MemoryStore) Start(home, away string) (Match, error) {
	id := NewIdentity(home, away)
	a, b := id.Teams()
	if a == "" || b == "" {
		return Match{}, fmt.Errorf("%w: team name cannot be empty", ErrValidation)
	}
	if a == b {
		return Match{}, fmt.Errorf("%w: team %q cannot play against itself", ErrValidation, home)
	}

	m.reserveMu.Lock()
	match, err := m.register(id, home, away)
	m.reserveMu.Unlock()
	if err != nil {
		return Match{}, err
	}

	m.publish(Event{Kind: EventStarted, Match: match})
	return match, nil
}

// register claims both teams and the identity. Caller holds reserveMu.
func (m *MemoryStore) register(id Identity, home, away string) (Match, error) {
	a, b := id.Teams()

	if _, loaded := m.teams.LoadOrStore(a, id); loaded {
		return Match{}, teamConflict(a)
	}
	if _, loaded := m.teams.LoadOrStore(b, id); loaded {
		m.teams.Delete(a)
		return Match{}, teamConflict(b)
	}

	match := Match{
		ID:       id,
		HomeTeam: home,
		AwayTeam: away,
		Seq:      m.seq.Add(1),
	}
	if _, loaded := m.matches.LoadOrStore(id, match); loaded {
		m.teams.Delete(a)
		m.teams.Delete(b)
		return Match{}, fmt.Errorf("%w: match already exists for %s", ErrConflict, id)
	}
	return match, nil
}

func teamConflict(team string) error {
	return fmt.Errorf("%w: at least one of the teams is already playing a match (%s)", ErrConflict, team)
}

// Get returns a copy of the current state of the match.
func (m *MemoryStore) Get(id Identity) (Match, error) {
	v, ok := m.matches.Load(id)
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v.(Match), nil
}

// CompareAndSwapScore replaces observed with a new version carrying the given
// scores, provided observed is still exactly the current state.
//
// Returns an error wrapping:
//   - [ErrValidation] if a score is negative or the total overflows
//   - [ErrNotFound] if the match observed is no longer active
//   - [ErrConcurrencyConflict] if another mutation interleaved
//
// An update whose scores equal the current ones still goes through the
// compare step: it fails if observed is stale and otherwise returns the
// current state unchanged without emitting an event.
func (m *MemoryStore) CompareAndSwapScore(observed Match, home, away int) (Match, error) {
	if home < 0 || away < 0 {
		return Match{}, fmt.Errorf("%w: score cannot be negative (got %d-%d)", ErrValidation, home, away)
	}
	next := observed.withScore(home, away)
	if _, err := next.Total(); err != nil {
		return Match{}, err
	}

	current, err := m.Get(observed.ID)
	if err != nil {
		return Match{}, err
	}
	if current.Seq != observed.Seq {
		// the observed match finished and the pairing was started again
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, observed.ID)
	}
	if current != observed {
		return Match{}, fmt.Errorf("%w: %s", ErrConcurrencyConflict, observed.ID)
	}
	if current.HomeScore == home && current.AwayScore == away {
		return current, nil
	}

	if !m.matches.CompareAndSwap(observed.ID, observed, next) {
		if v, ok := m.matches.Load(observed.ID); !ok || v.(Match).Seq != observed.Seq {
			return Match{}, fmt.Errorf("%w: %s", ErrNotFound, observed.ID)
		}
		return Match{}, fmt.Errorf("%w: %s", ErrConcurrencyConflict, observed.ID)
	}

	m.publish(Event{Kind: EventUpdated, Match: next})
	return next, nil
}

// UpdateScore reads the current state of the match and replaces it with one
// compare-and-swap. It is not retried on [ErrConcurrencyConflict].
func (m *MemoryStore) UpdateScore(id Identity, home, away int) (Match, error) {
	current, err := m.Get(id)
	if err != nil {
		return Match{}, err
	}
	return m.CompareAndSwapScore(current, home, away)
}

// Finish removes the match and releases both of its teams.
//
// Removal and release happen under the reservation mutex, so once Finish
// returns both teams can start a new match immediately.
func (m *MemoryStore) Finish(id Identity) (Match, error) {
	m.reserveMu.Lock()
	v, ok := m.matches.LoadAndDelete(id)
	if ok {
		a, b := id.Teams()
		m.teams.Delete(a)
		m.teams.Delete(b)
	}
	m.reserveMu.Unlock()

	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	removed := v.(Match)
	m.publish(Event{Kind: EventFinished, Match: removed})
	return removed, nil
}

// Snapshot returns a copy of all active matches.
//
// The set of matches is taken under the reservation mutex, so no match is
// half-started or half-finished in the result. Each match is the state current
// at the moment it was read. The returned slice is a copy; modifications do
// not affect the store. Order is not guaranteed.
func (m *MemoryStore) Snapshot() []Match {
	m.reserveMu.Lock()
	defer m.reserveMu.Unlock()

	var out []Match
	m.matches.Range(func(_, v any) bool {
		out = append(out, v.(Match))
		return true
	})
	return out
}

// Len returns the number of active matches.
func (m *MemoryStore) Len() int {
	n := 0
	m.matches.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Playing reports whether the team is currently committed to a match, and
// which one.
func (m *MemoryStore) Playing(team string) (Identity, bool) {
	v, ok := m.teams.Load(FoldTeam(team))
	if !ok {
		return Identity{}, false
	}
	return v.(Identity), true
}

// Reset removes every match and releases every team.
//
// Hooks and subscribers receive one finished event per removed match.
func (m *MemoryStore) Reset() {
	m.reserveMu.Lock()
	var removed []Match
	m.matches.Range(func(k, v any) bool {
		removed = append(removed, v.(Match))
		m.matches.Delete(k)
		return true
	})
	m.teams.Clear()
	m.reserveMu.Unlock()

	for _, match := range removed {
		m.publish(Event{Kind: EventFinished, Match: match})
	}
}

// OnChange registers fn to run synchronously after every successful mutation.
//
// Hooks run in registration order on the mutating goroutine, before
// subscribers are notified. Rejected mutations do not trigger hooks.
// Nil hooks are ignored.
func (m *MemoryStore) OnChange(fn func(Event)) {
	if fn == nil {
		return
	}
	m.hooksMu.Lock()
	m.hooks = append(m.hooks, fn)
	m.hooksMu.Unlock()
}

// Subscribe creates a new subscription and returns a channel for receiving events.
//
// The returned channel has a buffer of 100 events. If the buffer fills
// (slow consumer), new events are dropped for this subscriber.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// publish runs the change hooks and then fans the event out to subscribers.
func (m *MemoryStore) publish(ev Event) {
	m.hooksMu.RLock()
	hooks := m.hooks
	m.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(ev)
	}

	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- ev:
		default:
			// subscriber is slow, drop the event
		}
	}
}
