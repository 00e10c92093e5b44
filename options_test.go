package scoreboard

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	sb, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if sb.Title() != "Scoreboard" {
		t.Errorf("Title() = %q, want %q", sb.Title(), "Scoreboard")
	}
	if sb.logger != slog.Default() {
		t.Error("New() should default to slog.Default()")
	}
	if sb.updateRetries != 0 {
		t.Errorf("updateRetries = %d, want 0", sb.updateRetries)
	}
	if sb.teams.maxLength != 64 {
		t.Errorf("teams.maxLength = %d, want 64", sb.teams.maxLength)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name     string
		opt      Option
		contains string
	}{
		{"nil logger", WithLogger(nil), "logger cannot be nil"},
		{"bad pattern", WithTeamNamePattern("[a-"), "invalid team name pattern"},
		{"zero max length", WithMaxTeamNameLength(0), "must be positive"},
		{"negative retries", WithUpdateRetries(-1), "cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if err == nil {
				t.Fatal("New() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("New() error = %v, want containing %q", err, tt.contains)
			}
		})
	}
}

func TestWithTitle(t *testing.T) {
	sb := newTestScoreboard(t, WithTitle("World Cup"))
	if sb.Title() != "World Cup" {
		t.Errorf("Title() = %q, want %q", sb.Title(), "World Cup")
	}
}

func TestWithLogger_ReceivesRejections(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sb := newTestScoreboard(t, WithLogger(logger))
	mustStart(t, sb, "Spain", "Brazil")
	_, _ = sb.StartMatch("Spain", "Italy")

	out := buf.String()
	if !strings.Contains(out, "match started") {
		t.Errorf("log output missing %q\nGot: %s", "match started", out)
	}
	if !strings.Contains(out, "start rejected") {
		t.Errorf("log output missing %q\nGot: %s", "start rejected", out)
	}
}

func TestWithTeamNamePattern(t *testing.T) {
	sb := newTestScoreboard(t, WithTeamNamePattern(`^[A-Z][a-z]+$`))

	if _, err := sb.StartMatch("Spain", "Brazil"); err != nil {
		t.Fatalf("StartMatch() error = %v", err)
	}
	if _, err := sb.StartMatch("Costa Rica", "Italy"); !errors.Is(err, ErrValidation) {
		t.Errorf("StartMatch() error = %v, want ErrValidation", err)
	}
}

func TestWithMaxTeamNameLength(t *testing.T) {
	sb := newTestScoreboard(t, WithMaxTeamNameLength(5))

	if _, err := sb.StartMatch("Spain", "Italy"); err != nil {
		t.Fatalf("StartMatch() error = %v", err)
	}
	if _, err := sb.StartMatch("Germany", "Chile"); !errors.Is(err, ErrValidation) {
		t.Errorf("StartMatch() error = %v, want ErrValidation", err)
	}
}

func TestWithUpdateRetries(t *testing.T) {
	sb := newTestScoreboard(t, WithUpdateRetries(3))
	if sb.updateRetries != 3 {
		t.Errorf("updateRetries = %d, want 3", sb.updateRetries)
	}
}
