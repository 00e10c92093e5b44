// Package summary ranks active matches and memoizes the ranked result.
//
// [Compare] is the ranking policy: total score descending, then most recently
// started first. [Cache] holds the last ranked summary until the store reports
// a mutation through [Cache.Invalidate].
package summary
