package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"garden-assistant/internal/pkg/common"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func ident(top, middle string) common.Identification {
	return common.Identification{TopLevel: top, MiddleLevel: middle, Confidence: 0.9}
}

func TestIdentificationCache_TTL(t *testing.T) {
	clock := newFakeClock()
	c := NewIdentificationCache(IdentificationOptions{TTL: 24 * time.Hour, MaxSize: 10, Clock: clock.Now})
	defer c.Close()

	c.Set("Red climbing rose", ident("Rose", "Climbing Rose"))

	got, ok := c.Get("  red   CLIMBING rose ")
	require.True(t, ok)
	assert.Equal(t, "Climbing Rose", got.MiddleLevel)

	clock.Advance(23 * time.Hour)
	_, ok = c.Get("red climbing rose")
	assert.True(t, ok)

	clock.Advance(time.Hour)
	_, ok = c.Get("red climbing rose")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestIdentificationCache_EvictsInInsertionOrder(t *testing.T) {
	clock := newFakeClock()
	c := NewIdentificationCache(IdentificationOptions{TTL: time.Hour, MaxSize: 2, Clock: clock.Now})
	defer c.Close()

	c.Set("a", ident("A", ""))
	clock.Advance(time.Second)
	c.Set("b", ident("B", ""))

	// 讀取不影響淘汰順序
	_, ok := c.Get("a")
	require.True(t, ok)

	clock.Advance(time.Second)
	c.Set("c", ident("C", ""))

	_, ok = c.Get("a")
	assert.False(t, ok, "oldest insertion is evicted first")
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(1), c.GetStats()["evictions"])
}

func TestIdentificationCache_FullCachePrefersExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	c := NewIdentificationCache(IdentificationOptions{TTL: time.Minute, MaxSize: 2, Clock: clock.Now})
	defer c.Close()

	c.Set("a", ident("A", ""))
	c.Set("b", ident("B", ""))
	clock.Advance(2 * time.Minute)
	c.Set("c", ident("C", ""))

	assert.Equal(t, 1, c.Len())
	stats := c.GetStats()
	assert.Equal(t, int64(2), stats["expired"])
	assert.Equal(t, int64(0), stats["evictions"])
}

func TestIdentificationCache_ResetMovesToNewest(t *testing.T) {
	clock := newFakeClock()
	c := NewIdentificationCache(IdentificationOptions{TTL: time.Hour, MaxSize: 2, Clock: clock.Now})
	defer c.Close()

	c.Set("a", ident("A", ""))
	c.Set("b", ident("B", ""))
	c.Set("a", ident("A2", ""))
	c.Set("c", ident("C", ""))

	_, ok := c.Get("b")
	assert.False(t, ok)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A2", got.TopLevel)
}

func TestIdentificationCache_CleanupGoroutineStopsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewIdentificationCache(IdentificationOptions{TTL: time.Millisecond, MaxSize: 5, CleanupInterval: 5 * time.Millisecond})
	c.Set("a", ident("A", ""))

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestIdentificationCache_ConcurrentAccess(t *testing.T) {
	c := NewIdentificationCache(IdentificationOptions{TTL: time.Hour, MaxSize: 16})
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q := string(rune('a' + (i+j)%26))
				c.Set(q, ident(q, ""))
				c.Get(q)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
