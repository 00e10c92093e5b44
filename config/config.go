// Package config provides YAML configuration parsing for the scoreboard CLI.
//
// A configuration file sets scoreboard options and scripts a sequence of
// rounds to replay against a fresh [scoreboard.Scoreboard].
//
// Example configuration:
//
//	title: World Cup
//	log:
//	  level: info
//	  format: text
//	update_retries: 2
//
//	rounds:
//	  - name: Group stage
//	    concurrent: true
//	    events:
//	      - start: Mexico vs Canada
//	      - update: Mexico vs Canada
//	        score: 0-5
//	      - start: Spain vs Brazil
//	      - update: Spain vs Brazil
//	        score: {home: 10, away: 2}
//	      - start: Brazil vs Spain
//	        expect: conflict
//
//	  - name: Knockout
//	    events:
//	      - start: Spain vs Italy
//	        expect: conflict
//	      - finish: Mexico vs Canada
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// maxStepDelay caps the pause between replayed events.
const maxStepDelay = time.Minute

// Event actions.
const (
	ActionStart  = "start"
	ActionUpdate = "update"
	ActionFinish = "finish"
)

// Expected rejection kinds for [EventConfig.Expect].
const (
	ExpectValidation          = "validation"
	ExpectConflict            = "conflict"
	ExpectNotFound            = "not_found"
	ExpectConcurrencyConflict = "concurrency_conflict"
)

// Config is the root configuration structure for the scoreboard CLI.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the scoreboard title. Defaults to "Scoreboard".
	// Supports environment variable substitution.
	Title string `yaml:"title"`

	// Log configures the CLI logger.
	Log LogConfig `yaml:"log"`

	// UpdateRetries is how often a score update is resubmitted after losing
	// a race with another writer. Defaults to 0.
	UpdateRetries int `yaml:"update_retries"`

	// TeamNamePattern overrides the regular expression team names must match.
	TeamNamePattern string `yaml:"team_name_pattern"`

	// MaxTeamNameLength overrides the maximum team name length.
	MaxTeamNameLength int `yaml:"max_team_name_length"`

	// StepDelay is the pause between replayed events, e.g. "250ms".
	// Defaults to no pause. Must not exceed 1m.
	StepDelay Duration `yaml:"step_delay"`

	// Rounds are replayed in order.
	Rounds []RoundConfig `yaml:"rounds"`
}

// LogConfig selects the CLI log handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level"`

	// Format is text or json. Defaults to text.
	Format string `yaml:"format"`
}

// SlogLevel returns the [slog.Level] named by Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RoundConfig groups events replayed together.
type RoundConfig struct {
	// Name labels the round in logs. Defaults to "round N".
	Name string `yaml:"name"`

	// Concurrent replays each fixture of the round on its own goroutine.
	// Events of the same fixture keep their order.
	Concurrent bool `yaml:"concurrent"`

	// Events are the scripted operations of the round.
	Events []EventConfig `yaml:"events"`
}

// EventConfig is one scripted scoreboard operation.
//
// It supports two formats in YAML:
//
// Shorthand, with the action as key and the fixture as value:
//
//	- start: Mexico vs Canada
//	- update: Mexico vs Canada
//	  score: 0-5
//	- finish: Mexico vs Canada
//
// Structured:
//
//	- action: update
//	  home: Mexico
//	  away: Canada
//	  score: {home: 0, away: 5}
type EventConfig struct {
	// Action is start, update or finish.
	Action string

	// Home and Away name the teams of the fixture.
	Home string
	Away string

	// Score is the absolute score to set. Required for update only.
	Score *ScoreConfig

	// Expect names the rejection this event must produce, if any:
	// validation, conflict, not_found or concurrency_conflict.
	Expect string
}

// ScoreConfig is an absolute match score.
//
// It supports two formats in YAML:
//
//	score: 2-1
//	score: {home: 2, away: 1}
type ScoreConfig struct {
	Home int
	Away int
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler for ScoreConfig.
func (s *ScoreConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var raw string
		if err := node.Decode(&raw); err != nil {
			return err
		}
		return s.parseShorthand(raw)
	}

	if node.Kind == yaml.MappingNode {
		// temporary struct to avoid infinite recursion
		var raw struct {
			Home *int `yaml:"home"`
			Away *int `yaml:"away"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Home == nil || raw.Away == nil {
			return errors.New("score must set both home and away")
		}
		s.Home = *raw.Home
		s.Away = *raw.Away
		return nil
	}

	return fmt.Errorf("score must be a string or object, got %v", node.Kind)
}

// parseShorthand parses "2-1" (also "2:1") score syntax.
func (s *ScoreConfig) parseShorthand(raw string) error {
	raw = strings.TrimSpace(raw)
	sep := strings.IndexAny(raw, "-:")
	if sep <= 0 || sep == len(raw)-1 {
		return fmt.Errorf("invalid score %q (expected 'home-away', e.g. '2-1')", raw)
	}

	home, err := strconv.Atoi(strings.TrimSpace(raw[:sep]))
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", raw, err)
	}
	away, err := strconv.Atoi(strings.TrimSpace(raw[sep+1:]))
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", raw, err)
	}

	s.Home = home
	s.Away = away
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler for EventConfig.
func (e *EventConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("event must be an object, got %v", node.Kind)
	}

	var raw struct {
		Start  *string      `yaml:"start"`
		Update *string      `yaml:"update"`
		Finish *string      `yaml:"finish"`
		Action string       `yaml:"action"`
		Home   string       `yaml:"home"`
		Away   string       `yaml:"away"`
		Score  *ScoreConfig `yaml:"score"`
		Expect string       `yaml:"expect"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	e.Score = raw.Score
	e.Expect = raw.Expect

	shorthand := map[string]*string{
		ActionStart:  raw.Start,
		ActionUpdate: raw.Update,
		ActionFinish: raw.Finish,
	}
	var fixture *string
	for action, v := range shorthand {
		if v == nil {
			continue
		}
		if fixture != nil {
			return errors.New("event must name exactly one action")
		}
		e.Action = action
		fixture = v
	}

	if fixture == nil {
		e.Action = raw.Action
		e.Home = raw.Home
		e.Away = raw.Away
		return nil
	}

	if raw.Action != "" || raw.Home != "" || raw.Away != "" {
		return errors.New("event cannot mix shorthand and action/home/away fields")
	}
	home, away, err := parseFixture(*fixture)
	if err != nil {
		return err
	}
	e.Home = home
	e.Away = away
	return nil
}

// fixturePattern splits "Home vs Away" (also "v" and "vs.").
var fixturePattern = regexp.MustCompile(`(?i)^\s*(.+?)\s+(?:vs\.?|v)\s+(.+?)\s*$`)

// parseFixture parses "Home vs Away" fixture syntax.
func parseFixture(s string) (string, string, error) {
	m := fixturePattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", fmt.Errorf("invalid fixture %q (expected 'Home vs Away')", s)
	}
	return m[1], m[2], nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the title and team names are expanded.
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for Title ("Scoreboard"), log level (info), log
// format (text) and round names.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Title == "" {
		cfg.Title = "Scoreboard"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	title, err := expandEnvVars(c.Title)
	if err != nil {
		return fmt.Errorf("title: %w", err)
	}
	c.Title = title

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if c.UpdateRetries < 0 {
		return fmt.Errorf("update_retries cannot be negative, got %d", c.UpdateRetries)
	}
	if c.MaxTeamNameLength < 0 {
		return fmt.Errorf("max_team_name_length cannot be negative, got %d", c.MaxTeamNameLength)
	}
	if c.TeamNamePattern != "" {
		// fail fast before the SDK compiles it
		if _, err := regexp.Compile(c.TeamNamePattern); err != nil {
			return fmt.Errorf("invalid team_name_pattern: %w", err)
		}
	}

	if c.StepDelay.Duration() < 0 {
		return fmt.Errorf("step_delay cannot be negative, got %s", c.StepDelay.Duration())
	}
	if c.StepDelay.Duration() > maxStepDelay {
		return fmt.Errorf("step_delay must not exceed %s, got %s", maxStepDelay, c.StepDelay.Duration())
	}

	if len(c.Rounds) == 0 {
		return errors.New("at least one round must be defined")
	}

	for i := range c.Rounds {
		r := &c.Rounds[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("round %d", i+1)
		}
		if len(r.Events) == 0 {
			return fmt.Errorf("rounds[%d] (%s): at least one event is required", i, r.Name)
		}

		for j := range r.Events {
			ctx := fmt.Sprintf("rounds[%d] (%s): events[%d]", i, r.Name, j)
			if err := validateEvent(&r.Events[j], ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateEvent expands and validates a single event.
func validateEvent(e *EventConfig, context string) error {
	switch e.Action {
	case ActionStart, ActionUpdate, ActionFinish:
	case "":
		return fmt.Errorf("%s: action is required (start, update, or finish)", context)
	default:
		return fmt.Errorf("%s: unknown action %q", context, e.Action)
	}

	var err error
	if e.Home, err = expandEnvVars(e.Home); err != nil {
		return fmt.Errorf("%s: home: %w", context, err)
	}
	if e.Away, err = expandEnvVars(e.Away); err != nil {
		return fmt.Errorf("%s: away: %w", context, err)
	}
	if strings.TrimSpace(e.Home) == "" || strings.TrimSpace(e.Away) == "" {
		return fmt.Errorf("%s: home and away are required", context)
	}

	switch e.Action {
	case ActionUpdate:
		if e.Score == nil {
			return fmt.Errorf("%s: update requires a score", context)
		}
		if e.Score.Home < 0 || e.Score.Away < 0 {
			if e.Expect != ExpectValidation {
				return fmt.Errorf("%s: score cannot be negative, got %d-%d", context, e.Score.Home, e.Score.Away)
			}
		}
	default:
		if e.Score != nil {
			return fmt.Errorf("%s: score is only valid for update", context)
		}
	}

	switch e.Expect {
	case "", ExpectValidation, ExpectConflict, ExpectNotFound, ExpectConcurrencyConflict:
	default:
		return fmt.Errorf("%s: unknown expect %q", context, e.Expect)
	}

	return nil
}

// Fixture returns the event's fixture in "Home vs Away" form.
func (e EventConfig) Fixture() string {
	return e.Home + " vs " + e.Away
}
