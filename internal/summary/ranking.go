package summary

import (
	"cmp"
	"slices"

	"github.com/jpalmerr/scoreboard/internal/store"
)

// Compare orders two matches for the summary.
//
// Higher totals come first; among equal totals the match started later
// (higher Seq) comes first. Seq is unique per store, so Compare only returns 0
// for the same match. A total that does not fit in an int ranks above every
// representable total.
func Compare(a, b store.Match) int {
	if c := cmp.Compare(total(b), total(a)); c != 0 {
		return c
	}
	return cmp.Compare(b.Seq, a.Seq)
}

// Rank returns a sorted copy of matches. The input slice is not modified.
func Rank(matches []store.Match) []store.Match {
	ranked := slices.Clone(matches)
	slices.SortFunc(ranked, Compare)
	return ranked
}

// total widens the sum to uint so an overflowing pair still orders correctly.
func total(m store.Match) uint {
	return uint(m.HomeScore) + uint(m.AwayScore)
}
