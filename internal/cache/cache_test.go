package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute, 10)

	key := Key([]byte(`{"weights":{"articles_created":3}}`))
	c.Set(key, []byte("result"))

	data, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, []byte("result"), data)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestCacheKeyIsContentHash(t *testing.T) {
	a := Key([]byte("same body"))
	b := Key([]byte("same body"))
	other := Key([]byte("different body"))

	assert.Equal(t, a, b, "identical content yields identical keys")
	assert.NotEqual(t, a, other)
}

func TestCacheEntriesAreImmutable(t *testing.T) {
	c := NewCache(time.Minute, 10)

	c.Set("k", []byte("first"))
	c.Set("k", []byte("second"))

	data, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("first"), data, "an entry is never overwritten once written")
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(10*time.Millisecond, 10)

	c.Set("k", []byte("v"))
	_, found := c.Get("k")
	require.True(t, found)

	time.Sleep(25 * time.Millisecond)

	_, found = c.Get("k")
	assert.False(t, found)
	assert.Equal(t, 0, c.Size(), "expired entry is removed on access")
}

func TestCacheLRUEviction(t *testing.T) {
	c := NewCache(time.Minute, 3)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), []byte{byte(i)})
	}

	// Touch k0 so k1 becomes the least recently used.
	_, found := c.Get("k0")
	require.True(t, found)

	c.Set("k3", []byte{3})

	_, found = c.Get("k1")
	assert.False(t, found, "least recently used entry is evicted")
	for _, key := range []string{"k0", "k2", "k3"} {
		_, found = c.Get(key)
		assert.True(t, found, "%s should survive eviction", key)
	}
	assert.Equal(t, 3, c.Size())
}

func TestCacheClearAndDelete(t *testing.T) {
	c := NewCache(time.Minute, 10)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute, 5)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 5, stats["max_entries"])
	assert.Equal(t, 60.0, stats["ttl_seconds"])
}
