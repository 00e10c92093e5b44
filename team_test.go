package scoreboard

import (
	"errors"
	"testing"
)

func TestTeamRules_Normalize(t *testing.T) {
	rules := teamRules{pattern: defaultTeamNameRegexp, maxLength: defaultMaxTeamNameLength}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Spain", "Spain", false},
		{"trimmed", "  Costa Rica  ", "Costa Rica", false},
		{"unicode", "Côte d'Ivoire", "Côte d'Ivoire", false},
		{"digits and punctuation", "1. FC Köln", "1. FC Köln", false},
		{"ampersand and hyphen", "Brighton & Hove-Albion", "Brighton & Hove-Albion", false},
		{"empty", "", "", true},
		{"leading punctuation", "-Spain", "", true},
		{"angle brackets", "<b>Spain</b>", "", true},
		{"newline inside", "Spa\nin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rules.normalize("home", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("normalize(%q) error = %v, want ErrValidation", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTeamRules_PairingRejectsSelfMatch(t *testing.T) {
	rules := teamRules{pattern: defaultTeamNameRegexp, maxLength: defaultMaxTeamNameLength}

	if _, _, err := rules.pairing("Spain", " SPAIN "); !errors.Is(err, ErrValidation) {
		t.Errorf("pairing() error = %v, want ErrValidation", err)
	}
	home, away, err := rules.pairing(" Spain", "Brazil ")
	if err != nil {
		t.Fatalf("pairing() error = %v", err)
	}
	if home != "Spain" || away != "Brazil" {
		t.Errorf("pairing() = (%q, %q), want (%q, %q)", home, away, "Spain", "Brazil")
	}
}
