package scoreboard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jpalmerr/scoreboard/internal/store"
)

const (
	// defaultTeamNamePattern accepts letters, digits, spaces and a few
	// punctuation marks seen in club names, starting with a letter or digit.
	defaultTeamNamePattern = `^[\p{L}\p{N}][\p{L}\p{N} .'&-]*$`

	defaultMaxTeamNameLength = 64
)

var defaultTeamNameRegexp = regexp.MustCompile(defaultTeamNamePattern)

// teamRules validates team names before they reach the store.
type teamRules struct {
	pattern   *regexp.Regexp
	maxLength int
}

// normalize trims and validates a single team name.
func (r teamRules) normalize(role, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: %s team name cannot be empty", ErrValidation, role)
	}
	if n := utf8.RuneCountInString(name); n > r.maxLength {
		return "", fmt.Errorf("%w: %s team name must be at most %d characters, got %d",
			ErrValidation, role, r.maxLength, n)
	}
	if !r.pattern.MatchString(name) {
		return "", fmt.Errorf("%w: %s team name %q contains unsupported characters", ErrValidation, role, name)
	}
	return name, nil
}

// pairing validates both teams of a match and rejects a team playing itself.
func (r teamRules) pairing(home, away string) (string, string, error) {
	home, err := r.normalize("home", home)
	if err != nil {
		return "", "", err
	}
	away, err = r.normalize("away", away)
	if err != nil {
		return "", "", err
	}
	if store.FoldTeam(home) == store.FoldTeam(away) {
		return "", "", fmt.Errorf("%w: team %q cannot play against itself", ErrValidation, home)
	}
	return home, away, nil
}
