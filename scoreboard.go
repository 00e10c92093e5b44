package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/jpalmerr/scoreboard/internal/store"
	"github.com/jpalmerr/scoreboard/internal/summary"
)

const defaultTitle = "Scoreboard"

// Scoreboard tracks in-progress matches and produces a ranked summary.
//
// Scoreboard validates caller input, delegates to a concurrent match store
// and serves summaries from a cache that is invalidated on every change. It
// is created using [New] with functional options. Every instance is
// independent; there is no package-level state.
//
// The typical lifecycle is:
//
//	sb, err := scoreboard.New()
//	if err != nil {
//	    slog.Error("failed to create scoreboard", "error", err)
//	    os.Exit(1)
//	}
//
//	id, _ := sb.StartMatch("Mexico", "Canada")
//	_ = sb.UpdateScore(id, 0, 5)
//	for _, r := range sb.Summary() {
//	    fmt.Println(r)
//	}
//	_ = sb.FinishMatch(id)
//
// All methods are safe for concurrent use.
type Scoreboard struct {
	title          string
	store          *store.MemoryStore
	cache          *summary.Cache
	logger         *slog.Logger
	eventCallbacks []func(Event)
	teams          teamRules
	updateRetries  int
}

// New creates a new, empty [Scoreboard] with the given options.
//
// Defaults:
//   - Title: "Scoreboard"
//   - Logger: [slog.Default]
//   - Team names: letters, digits, spaces and . ' & -, at most 64 characters
//   - Update retries: 0
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Scoreboard, error) {
	cfg := &sbConfig{
		title:         defaultTitle,
		teamPattern:   defaultTeamNameRegexp,
		maxTeamLength: defaultMaxTeamNameLength,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	st := store.NewMemoryStore()
	sb := &Scoreboard{
		title:          cfg.title,
		store:          st,
		cache:          summary.NewCache(st),
		logger:         logger,
		eventCallbacks: cfg.eventCallbacks,
		teams:          teamRules{pattern: cfg.teamPattern, maxLength: cfg.maxTeamLength},
		updateRetries:  cfg.updateRetries,
	}

	// invalidation first so callbacks reading Summary see the change
	st.OnChange(func(store.Event) { sb.cache.Invalidate() })
	if len(sb.eventCallbacks) > 0 {
		st.OnChange(sb.dispatch)
	}

	return sb, nil
}

// Title returns the configured scoreboard title.
func (sb *Scoreboard) Title() string {
	return sb.title
}

// StartMatch starts a new match with a 0-0 score and returns its ID.
//
// Returns an error wrapping [ErrValidation] if a team name is invalid or a
// team would play itself, and [ErrConflict] if either team is already playing.
func (sb *Scoreboard) StartMatch(home, away string) (MatchID, error) {
	rawHome, rawAway := home, away
	home, away, err := sb.teams.pairing(home, away)
	if err != nil {
		sb.logger.Warn("start rejected", "home", rawHome, "away", rawAway, "error", err)
		return MatchID{}, err
	}

	m, err := sb.store.Start(home, away)
	if err != nil {
		sb.logger.Warn("start rejected", "home", home, "away", away, "error", err)
		return MatchID{}, err
	}

	sb.logger.Debug("match started", "match_id", m.ID.String(), "home", home, "away", away)
	return MatchID{id: m.ID}, nil
}

// Match returns a copy of the current state of the match.
//
// Returns an error wrapping [ErrNotFound] if the match is not in progress.
func (sb *Scoreboard) Match(id MatchID) (Match, error) {
	m, err := sb.store.Get(id.id)
	if err != nil {
		return Match{}, err
	}
	return matchFromState(m), nil
}

// UpdateScore sets the absolute score of an in-progress match.
//
// The current state is read and replaced with a compare-and-swap. If another
// writer changed the match in between, the update is re-read and resubmitted
// up to the number of times set by [WithUpdateRetries].
//
// Returns an error wrapping [ErrValidation] for negative scores,
// [ErrNotFound] if the match is not in progress, and [ErrConcurrencyConflict]
// once retries are exhausted.
func (sb *Scoreboard) UpdateScore(id MatchID, homeScore, awayScore int) error {
	var err error
	for attempt := 0; attempt <= sb.updateRetries; attempt++ {
		var m store.Match
		m, err = sb.store.UpdateScore(id.id, homeScore, awayScore)
		if err == nil {
			sb.logger.Debug("score updated",
				"match_id", id.String(),
				"home_score", m.HomeScore,
				"away_score", m.AwayScore,
				"attempt", attempt+1,
			)
			return nil
		}
		if !errors.Is(err, ErrConcurrencyConflict) {
			break
		}
	}

	sb.logger.Warn("score update rejected",
		"match_id", id.String(),
		"home_score", homeScore,
		"away_score", awayScore,
		"error", err,
	)
	return err
}

// CompareAndUpdateScore replaces observed with the given scores, provided
// observed is still the current state of its match.
//
// This is the optimistic primitive behind [Scoreboard.UpdateScore]; it is
// never retried. On [ErrConcurrencyConflict] the caller re-reads with
// [Scoreboard.Match] and decides whether to resubmit.
//
// Setting the scores a match already has succeeds without a change as long as
// observed is current; a stale observed still fails.
func (sb *Scoreboard) CompareAndUpdateScore(observed Match, homeScore, awayScore int) (Match, error) {
	m, err := sb.store.CompareAndSwapScore(observed.state, homeScore, awayScore)
	if err != nil {
		sb.logger.Debug("compare-and-update rejected", "match_id", observed.ID.String(), "error", err)
		return Match{}, err
	}
	return matchFromState(m), nil
}

// FinishMatch removes an in-progress match from the scoreboard.
//
// Both teams are free to start a new match as soon as FinishMatch returns.
// Returns an error wrapping [ErrNotFound] if the match is not in progress.
func (sb *Scoreboard) FinishMatch(id MatchID) error {
	m, err := sb.store.Finish(id.id)
	if err != nil {
		sb.logger.Warn("finish rejected", "match_id", id.String(), "error", err)
		return err
	}

	sb.logger.Debug("match finished", "match_id", id.String(), "final", m.Record())
	return nil
}

// Summary returns all in-progress matches ordered by total score, with the
// most recently started match first among equal totals.
//
// The summary is cached until the next change. The returned slice is a copy;
// modifications do not affect the scoreboard.
func (sb *Scoreboard) Summary() []MatchRecord {
	records := sb.cache.Summary()
	out := make([]MatchRecord, len(records))
	for i, r := range records {
		out[i] = MatchRecord(r)
	}
	return out
}

// Len returns the number of matches in progress.
func (sb *Scoreboard) Len() int {
	return sb.store.Len()
}

// Reset finishes every match in progress.
func (sb *Scoreboard) Reset() {
	sb.store.Reset()
	sb.logger.Info("scoreboard cleared", "title", sb.title)
}

// Watch returns a channel of events until ctx is cancelled.
//
// The channel is closed when ctx is done. Events are buffered; a consumer
// that falls behind misses events rather than blocking the scoreboard.
func (sb *Scoreboard) Watch(ctx context.Context) <-chan Event {
	in := sb.store.Subscribe()
	out := make(chan Event, cap(in))

	go func() {
		defer close(out)
		defer sb.store.Unsubscribe(in)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- eventFromStore(ev):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// dispatch delivers a store event to every registered callback.
func (sb *Scoreboard) dispatch(ev store.Event) {
	public := eventFromStore(ev)
	for _, cb := range sb.eventCallbacks {
		invokeCallbackSafe(cb, public, sb.logger)
	}
}

// invokeCallbackSafe calls an event callback with panic recovery.
// Panics are logged with a correlation ID and stack trace but do not propagate.
func invokeCallbackSafe(cb func(Event), ev Event, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"kind", ev.Kind.String(),
				"match_id", ev.Match.ID.String(),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(ev)
}
