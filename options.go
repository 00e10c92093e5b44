package scoreboard

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
)

// sbConfig holds mutable state during Scoreboard construction.
type sbConfig struct {
	title          string
	logger         *slog.Logger
	eventCallbacks []func(Event)
	teamPattern    *regexp.Regexp
	maxTeamLength  int
	updateRetries  int
}

// Option is a function that configures a [Scoreboard] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithTitle], [WithLogger], [WithEventCallback],
// [WithTeamNamePattern], [WithMaxTeamNameLength], [WithUpdateRetries].
type Option func(*sbConfig) error

// WithTitle sets the scoreboard title used in logs and CLI output.
//
// If not specified, defaults to "Scoreboard".
func WithTitle(title string) Option {
	return func(cfg *sbConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Scoreboard instance.
//
// If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	sb, err := scoreboard.New(scoreboard.WithLogger(logger))
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *sbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithEventCallback registers a function to be called after every successful
// start, score update and finish.
//
// Multiple callbacks may be registered by calling WithEventCallback multiple
// times; they execute in registration order.
//
// IMPORTANT: Callbacks run synchronously on the goroutine that made the
// change, so they must be non-blocking. Dispatch long-running work to a
// separate goroutine. Panics within callbacks are recovered and logged.
//
// Example:
//
//	sb, err := scoreboard.New(
//	    scoreboard.WithEventCallback(func(ev scoreboard.Event) {
//	        if ev.Kind == scoreboard.EventFinished {
//	            log.Printf("full time: %s", ev.Match.Record())
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithEventCallback(cb func(Event)) Option {
	return func(cfg *sbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.eventCallbacks = append(cfg.eventCallbacks, cb)
		return nil
	}
}

// WithTeamNamePattern restricts team names to those matching the regular
// expression pattern.
//
// The default accepts letters, digits, spaces and the characters . ' & -,
// starting with a letter or digit.
//
// Returns an error if the pattern does not compile.
func WithTeamNamePattern(pattern string) Option {
	return func(cfg *sbConfig) error {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid team name pattern: %w", err)
		}
		cfg.teamPattern = re
		return nil
	}
}

// WithMaxTeamNameLength sets the maximum team name length in characters.
// Defaults to 64.
//
// Returns an error if n is zero or negative.
func WithMaxTeamNameLength(n int) Option {
	return func(cfg *sbConfig) error {
		if n <= 0 {
			return errors.New("max team name length must be positive")
		}
		cfg.maxTeamLength = n
		return nil
	}
}

// WithUpdateRetries sets how many times [Scoreboard.UpdateScore] re-reads and
// resubmits after losing a race with another writer.
//
// Defaults to 0: the first [ErrConcurrencyConflict] is returned to the caller.
// [Scoreboard.CompareAndUpdateScore] is never retried.
//
// Returns an error if n is negative.
func WithUpdateRetries(n int) Option {
	return func(cfg *sbConfig) error {
		if n < 0 {
			return errors.New("update retries cannot be negative")
		}
		cfg.updateRetries = n
		return nil
	}
}
