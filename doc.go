// Package scoreboard provides an in-memory, concurrency-safe scoreboard for
// live football matches.
//
// The scoreboard is an SDK-first library: matches are started, scored and
// finished through a [Scoreboard], and a summary of matches in progress can
// be read at any time from any goroutine.
//
// # Quick Start
//
//	sb, _ := scoreboard.New(scoreboard.WithTitle("World Cup"))
//
//	id, _ := sb.StartMatch("Mexico", "Canada")
//	_ = sb.UpdateScore(id, 0, 5)
//
//	for _, r := range sb.Summary() {
//	    fmt.Println(r) // Mexico 0 - Canada 5
//	}
//
//	_ = sb.FinishMatch(id)
//
// # Configuration
//
// The scoreboard uses the functional options pattern for configuration:
//
//	sb, err := scoreboard.New(
//	    scoreboard.WithTitle("World Cup"),
//	    scoreboard.WithLogger(logger),
//	    scoreboard.WithUpdateRetries(3),
//	    scoreboard.WithMaxTeamNameLength(32),
//	    scoreboard.WithEventCallback(func(ev scoreboard.Event) {
//	        log.Printf("%s: %s", ev.Kind, ev.Match.Record())
//	    }),
//	)
//
// # Matches and Teams
//
// A match is identified by its pair of teams, regardless of which side is
// home. Team names are compared case-insensitively, so "Spain" and "SPAIN"
// name the same team, while the names shown in the summary keep the casing
// they were started with. A team plays at most one match at a time:
// [Scoreboard.StartMatch] fails with [ErrConflict] while either team is still
// on the board.
//
// # Concurrent Updates
//
// [Scoreboard.CompareAndUpdateScore] replaces a match's score only if the
// match is still in the state the caller observed, and fails with
// [ErrConcurrencyConflict] otherwise. [Scoreboard.UpdateScore] builds on it,
// resubmitting up to the configured number of retries.
//
// # Summary
//
// [Scoreboard.Summary] lists matches in progress by total score, highest
// first. Matches with equal totals are ordered by start, most recent first.
// The summary is cached and recomputed only after a change to the board.
//
// # Errors
//
// Every failure wraps one of [ErrValidation], [ErrConflict], [ErrNotFound]
// or [ErrConcurrencyConflict]; test for them with [errors.Is].
//
// # Architecture
//
// The scoreboard consists of several internal packages (under internal/):
//
//   - internal/store: Match storage with team reservations and optimistic updates
//   - internal/summary: Summary ordering and the generation-tagged summary cache
//
// The internal packages are not part of the public API and may change
// without notice.
package scoreboard
