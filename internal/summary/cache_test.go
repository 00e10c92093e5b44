package summary

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/scoreboard/internal/store"
)

type staticSource struct {
	mu      sync.Mutex
	matches []store.Match
	calls   atomic.Int32
}

func (s *staticSource) Snapshot() []store.Match {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.Match(nil), s.matches...)
}

func (s *staticSource) set(ms []store.Match) {
	s.mu.Lock()
	s.matches = ms
	s.mu.Unlock()
}

func TestCache_StartsInvalid(t *testing.T) {
	c := NewCache(&staticSource{})
	assert.False(t, c.Valid())
	assert.Empty(t, c.Summary())
	assert.True(t, c.Valid())
}

func TestCache_SummaryIsMemoized(t *testing.T) {
	src := &staticSource{matches: worldCup()}
	c := NewCache(src)

	first := c.Summary()
	second := c.Summary()

	require.Len(t, first, 5)
	assert.Equal(t, first, second)
	assert.Same(t, &first[0], &second[0], "second call should return the cached slice")
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, uint64(1), c.Recomputes())
}

func TestCache_InvalidateRecomputes(t *testing.T) {
	src := &staticSource{matches: worldCup()[:1]}
	c := NewCache(src)

	require.Len(t, c.Summary(), 1)

	src.set(worldCup())
	assert.Len(t, c.Summary(), 1, "mutation without invalidation is not observed")

	c.Invalidate()
	assert.False(t, c.Valid())

	got := c.Summary()
	require.Len(t, got, 5)
	assert.Equal(t, "Uruguay", got[0].HomeTeam)
	assert.Equal(t, int32(2), src.calls.Load())
}

// invalidatingSource bumps the cache generation while a snapshot is being
// taken, simulating a mutation that lands mid-recompute.
type invalidatingSource struct {
	cache *Cache
	once  sync.Once
	n     atomic.Int32
}

func (s *invalidatingSource) Snapshot() []store.Match {
	n := s.n.Add(1)
	s.once.Do(s.cache.Invalidate)
	return []store.Match{match(fmt.Sprintf("Home %d", n), "Away", 0, 0, uint64(n))}
}

func TestCache_StaleRecomputeIsNotServed(t *testing.T) {
	src := &invalidatingSource{}
	c := NewCache(src)
	src.cache = c

	first := c.Summary()
	require.Len(t, first, 1)
	assert.Equal(t, "Home 1", first[0].HomeTeam)
	assert.False(t, c.Valid(), "entry computed before the invalidation must not be valid")

	second := c.Summary()
	assert.Equal(t, "Home 2", second[0].HomeTeam)
	assert.True(t, c.Valid())
}

func TestCache_WithMemoryStore(t *testing.T) {
	s := store.NewMemoryStore()
	c := NewCache(s)
	s.OnChange(func(store.Event) { c.Invalidate() })

	m, err := s.Start("A", "B")
	require.NoError(t, err)
	assert.Equal(t, []store.Record{{HomeTeam: "A", AwayTeam: "B"}}, c.Summary())

	_, err = s.UpdateScore(m.ID, 2, 1)
	require.NoError(t, err)
	assert.False(t, c.Valid())
	assert.Equal(t, 2, c.Summary()[0].HomeScore)

	// a rejected update leaves the cache valid
	_, err = s.CompareAndSwapScore(m, 5, 5)
	require.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.True(t, c.Valid())

	_, err = s.Finish(m.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Summary())
}

func TestCache_ConcurrentReadersSeeLatestAfterWrites(t *testing.T) {
	s := store.NewMemoryStore()
	c := NewCache(s)
	s.OnChange(func(store.Event) { c.Invalidate() })

	const teams = 20
	var g errgroup.Group
	for i := 0; i < teams; i++ {
		g.Go(func() error {
			m, err := s.Start(fmt.Sprintf("H%d", i), fmt.Sprintf("A%d", i))
			if err != nil {
				return err
			}
			_, err = s.UpdateScore(m.ID, i, 0)
			return err
		})
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				_ = c.Summary()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	got := c.Summary()
	require.Len(t, got, teams)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].HomeScore, got[i].HomeScore)
	}
	assert.Equal(t, "H19", got[0].HomeTeam)
}
