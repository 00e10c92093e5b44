package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/scoreboard"
)

// fixtures are played concurrently, one goroutine per match.
var fixtures = [][2]string{
	{"Mexico", "Canada"},
	{"Spain", "Brazil"},
	{"Germany", "France"},
	{"Uruguay", "Italy"},
	{"Argentina", "Australia"},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sb, err := scoreboard.New(
		scoreboard.WithTitle("World Cup"),
		scoreboard.WithLogger(logger),
		scoreboard.WithUpdateRetries(3),
	)
	if err != nil {
		slog.Error("failed to create scoreboard", "error", err)
		os.Exit(1)
	}

	// stop early on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watchCtx, stopWatch := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sb.Watch(watchCtx) {
			fmt.Printf("%-8s %s\n", ev.Kind, ev.Match.Record())
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range fixtures {
		g.Go(func() error {
			return play(gctx, sb, f[0], f[1])
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("match failed", "error", err)
	}

	fmt.Printf("\n%s\n", sb.Title())
	for i, r := range sb.Summary() {
		fmt.Printf("%d. %s\n", i+1, r)
	}

	stopWatch()
	<-done
}

// play starts a match and scores a few random goals. The match stays on the
// board so the final summary has something to show.
func play(ctx context.Context, sb *scoreboard.Scoreboard, home, away string) error {
	id, err := sb.StartMatch(home, away)
	if err != nil {
		return err
	}

	for range 5 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(50+rand.IntN(150)) * time.Millisecond):
		}

		current, err := sb.Match(id)
		if err != nil {
			return err
		}
		h, a := current.HomeScore, current.AwayScore
		if rand.IntN(2) == 0 {
			h++
		} else {
			a++
		}
		// one writer per match, so the observed state is never stale here
		if _, err := sb.CompareAndUpdateScore(current, h, a); err != nil {
			return err
		}
	}
	return nil
}
