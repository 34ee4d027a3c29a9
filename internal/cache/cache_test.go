package cache

import (
	"testing"
	"time"

	eventdomain "github.com/smallbiznis/clubhouse/internal/event/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	c := newTTLCache[string, int](func() time.Time { return now })

	c.Set("a", 1, time.Minute)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Empty(t, c.entries)
}

func TestTTLCacheIgnoresNonPositiveTTL(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestEventCacheReturnsCopies(t *testing.T) {
	c := NewEventCache()
	c.SetEvent(" E1 ", &eventdomain.Event{ID: "E1", Title: "Science Fair"})

	first, ok := c.GetEvent("E1")
	require.True(t, ok)
	first.Title = "changed"

	second, ok := c.GetEvent("E1")
	require.True(t, ok)
	assert.Equal(t, "Science Fair", second.Title)

	c.SetEvent("E2", nil)
	_, ok = c.GetEvent("E2")
	assert.False(t, ok)
}
