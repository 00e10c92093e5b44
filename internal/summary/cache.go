package summary

import (
	"sync/atomic"

	"github.com/jpalmerr/scoreboard/internal/store"
)

// Source supplies the point-in-time match set the cache ranks.
type Source interface {
	Snapshot() []store.Match
}

// Cache memoizes the ranked summary of a [Source].
//
// The cache keeps a generation counter bumped by every [Cache.Invalidate]. A
// cached entry is only served while its generation is current, so a summary
// computed from a snapshot that predates an invalidation is never returned to
// later readers. Readers that find the cache invalid recompute without
// coordinating with each other; the entry with the newest generation wins.
type Cache struct {
	src   Source
	gen   atomic.Uint64
	entry atomic.Pointer[entry]

	recomputes atomic.Uint64
}

type entry struct {
	gen     uint64
	records []store.Record
}

// NewCache creates an empty, invalid cache over src.
func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Invalidate drops the cached summary.
func (c *Cache) Invalidate() {
	c.gen.Add(1)
}

// Valid reports whether the next [Cache.Summary] call will be served from cache.
func (c *Cache) Valid() bool {
	e := c.entry.Load()
	return e != nil && e.gen == c.gen.Load()
}

// Summary returns the ranked records of all active matches.
//
// The returned slice is shared with the cache and with other callers and
// must not be modified.
func (c *Cache) Summary() []store.Record {
	g := c.gen.Load()
	if e := c.entry.Load(); e != nil && e.gen == g {
		return e.records
	}

	// snapshot is taken after reading g, so it reflects every mutation whose
	// invalidation produced g
	ranked := Rank(c.src.Snapshot())
	records := make([]store.Record, len(ranked))
	for i, m := range ranked {
		records[i] = m.Record()
	}
	c.recomputes.Add(1)

	next := &entry{gen: g, records: records}
	for {
		cur := c.entry.Load()
		if cur != nil && cur.gen >= g {
			break
		}
		if c.entry.CompareAndSwap(cur, next) {
			break
		}
	}
	return records
}

// Recomputes returns how many times the summary has been rebuilt.
func (c *Cache) Recomputes() uint64 {
	return c.recomputes.Load()
}
