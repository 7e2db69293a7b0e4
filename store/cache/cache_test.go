package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.SetWithTTL("a", 1, -time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok, "entry set in the past is expired on read")
	assert.Equal(t, 0, c.Len())
}

func TestOverwriteRefreshesTTL(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.SetWithTTL("a", 1, -time.Second)
	c.Set("a", 2)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRUEviction(t *testing.T) {
	evicted := map[string]any{}
	c := New(Config{
		DefaultTTL: time.Minute,
		MaxItems:   2,
		OnEviction: func(key string, value any) { evicted[key] = value },
	})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the least recently used.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"b": 2}, evicted)
}

func TestDelete(t *testing.T) {
	evictions := 0
	c := New(Config{
		DefaultTTL: time.Minute,
		OnEviction: func(string, any) { evictions++ },
	})
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, evictions, "explicit delete is not an eviction")
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Millisecond})
	c.Close()
	c.Close()
}
