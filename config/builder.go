package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/scoreboard"
)

// BuildOptions converts parsed configuration into SDK options.
//
// logger may be nil, in which case the SDK default is used.
func BuildOptions(cfg *Config, logger *slog.Logger) []scoreboard.Option {
	opts := []scoreboard.Option{
		scoreboard.WithTitle(cfg.Title),
		scoreboard.WithUpdateRetries(cfg.UpdateRetries),
	}
	if logger != nil {
		opts = append(opts, scoreboard.WithLogger(logger))
	}
	if cfg.TeamNamePattern != "" {
		opts = append(opts, scoreboard.WithTeamNamePattern(cfg.TeamNamePattern))
	}
	if cfg.MaxTeamNameLength > 0 {
		opts = append(opts, scoreboard.WithMaxTeamNameLength(cfg.MaxTeamNameLength))
	}
	return opts
}

// ReplayReport summarizes a replay run.
type ReplayReport struct {
	// Applied counts events the scoreboard accepted.
	Applied int

	// Rejected counts events rejected as the script expected.
	Rejected int
}

// Replay applies every round of cfg to sb in order.
//
// Sequential rounds apply events one by one. Concurrent rounds group events
// by fixture and replay each group on its own goroutine, keeping the order of
// events within a fixture. The configured step delay is observed between
// events of the same goroutine.
//
// An event that fails without a matching expect, or that succeeds when a
// rejection was expected, stops the replay with an error. Cancelling ctx stops
// the replay between events.
func Replay(ctx context.Context, sb *scoreboard.Scoreboard, cfg *Config) (ReplayReport, error) {
	var applied, rejected atomic.Int64
	r := &replayer{
		sb:       sb,
		delay:    cfg.StepDelay.Duration(),
		applied:  &applied,
		rejected: &rejected,
	}

	for i, round := range cfg.Rounds {
		var err error
		if round.Concurrent {
			err = r.concurrent(ctx, round)
		} else {
			err = r.sequential(ctx, round.Events)
		}
		if err != nil {
			return r.report(), fmt.Errorf("rounds[%d] (%s): %w", i, round.Name, err)
		}
	}

	return r.report(), nil
}

type replayer struct {
	sb       *scoreboard.Scoreboard
	delay    time.Duration
	applied  *atomic.Int64
	rejected *atomic.Int64
}

func (r *replayer) report() ReplayReport {
	return ReplayReport{
		Applied:  int(r.applied.Load()),
		Rejected: int(r.rejected.Load()),
	}
}

// concurrent replays each fixture of the round on its own goroutine.
func (r *replayer) concurrent(ctx context.Context, round RoundConfig) error {
	groups := groupByFixture(round.Events)

	g, gctx := errgroup.WithContext(ctx)
	for _, events := range groups {
		g.Go(func() error {
			return r.sequential(gctx, events)
		})
	}
	return g.Wait()
}

func (r *replayer) sequential(ctx context.Context, events []EventConfig) error {
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && r.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		}
		if err := r.apply(ev); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one event and checks the outcome against its expectation.
func (r *replayer) apply(ev EventConfig) error {
	var err error
	switch ev.Action {
	case ActionStart:
		_, err = r.sb.StartMatch(ev.Home, ev.Away)
	case ActionUpdate:
		err = r.sb.UpdateScore(scoreboard.MatchIDFor(ev.Home, ev.Away), ev.Score.Home, ev.Score.Away)
	case ActionFinish:
		err = r.sb.FinishMatch(scoreboard.MatchIDFor(ev.Home, ev.Away))
	default:
		return fmt.Errorf("%s %s: unknown action", ev.Action, ev.Fixture())
	}

	if ev.Expect == "" {
		if err != nil {
			return fmt.Errorf("%s %s: %w", ev.Action, ev.Fixture(), err)
		}
		r.applied.Add(1)
		return nil
	}

	want := expectedError(ev.Expect)
	if err == nil {
		return fmt.Errorf("%s %s: expected %s, got success", ev.Action, ev.Fixture(), ev.Expect)
	}
	if !errors.Is(err, want) {
		return fmt.Errorf("%s %s: expected %s, got: %w", ev.Action, ev.Fixture(), ev.Expect, err)
	}
	r.rejected.Add(1)
	return nil
}

// expectedError maps an expect keyword to the SDK error it names.
func expectedError(expect string) error {
	switch expect {
	case ExpectValidation:
		return scoreboard.ErrValidation
	case ExpectConflict:
		return scoreboard.ErrConflict
	case ExpectNotFound:
		return scoreboard.ErrNotFound
	case ExpectConcurrencyConflict:
		return scoreboard.ErrConcurrencyConflict
	default:
		return nil
	}
}

// groupByFixture splits events into per-fixture lists, in order of first
// appearance, preserving the order of events within each fixture.
func groupByFixture(events []EventConfig) [][]EventConfig {
	index := make(map[scoreboard.MatchID]int)
	var groups [][]EventConfig

	for _, ev := range events {
		id := scoreboard.MatchIDFor(ev.Home, ev.Away)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], ev)
	}
	return groups
}

// CountActions tallies the events of cfg per action.
func CountActions(cfg *Config) map[string]int {
	counts := map[string]int{ActionStart: 0, ActionUpdate: 0, ActionFinish: 0}
	for _, round := range cfg.Rounds {
		for _, ev := range round.Events {
			counts[ev.Action]++
		}
	}
	return counts
}
