package scoreboard

import (
	"fmt"

	"github.com/jpalmerr/scoreboard/internal/store"
)

// MatchID identifies an in-progress match by its two teams.
//
// MatchID is case-insensitive and order-independent: the IDs for
// ("Spain", "Brazil") and ("brazil", "SPAIN") are equal. It is comparable and
// can be used as a map key.
type MatchID struct {
	id store.Identity
}

// MatchIDFor returns the [MatchID] of a match between the two teams.
//
// The match does not need to exist; this is how callers refer to a match by
// team names after starting it elsewhere.
func MatchIDFor(home, away string) MatchID {
	return MatchID{id: store.NewIdentity(home, away)}
}

// String returns the canonical form of the ID, e.g. "brazil:spain".
func (id MatchID) String() string {
	return id.id.String()
}

// IsZero reports whether the ID is the zero value.
func (id MatchID) IsZero() bool {
	return id.id.IsZero()
}

// Match is a read-only copy of an in-progress match.
//
// A Match also remembers the exact version it was read at, which is what
// [Scoreboard.CompareAndUpdateScore] compares against.
type Match struct {
	ID        MatchID
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int

	state store.Match
}

// Total returns the combined score of both teams.
func (m Match) Total() int {
	return m.HomeScore + m.AwayScore
}

// Record returns the summary form of the match.
func (m Match) Record() MatchRecord {
	return MatchRecord{
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
	}
}

// MatchRecord is one line of the scoreboard summary.
type MatchRecord struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// String renders the record as "Home 1 - Away 0".
func (r MatchRecord) String() string {
	return fmt.Sprintf("%s %d - %s %d", r.HomeTeam, r.HomeScore, r.AwayTeam, r.AwayScore)
}

func matchFromState(s store.Match) Match {
	return Match{
		ID:        MatchID{id: s.ID},
		HomeTeam:  s.HomeTeam,
		AwayTeam:  s.AwayTeam,
		HomeScore: s.HomeScore,
		AwayScore: s.AwayScore,
		state:     s,
	}
}
