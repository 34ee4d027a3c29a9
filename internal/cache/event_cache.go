package cache

import (
	"strings"
	"time"

	eventdomain "github.com/smallbiznis/clubhouse/internal/event/domain"
)

const defaultEventTTL = 30 * time.Second

// EventCache stores event lookups for the registration hot path.
// Entries are short lived because events are edited by the admin subsystem.
type EventCache interface {
	GetEvent(eventID string) (*eventdomain.Event, bool)
	SetEvent(eventID string, event *eventdomain.Event)
}

type eventCache struct {
	events Cache[string, eventdomain.Event]
	ttl    time.Duration
}

func NewEventCache() EventCache {
	return NewEventCacheWithTTL(defaultEventTTL)
}

func NewEventCacheWithTTL(ttl time.Duration) EventCache {
	return &eventCache{
		events: NewTTLCache[string, eventdomain.Event](),
		ttl:    ttl,
	}
}

// GetEvent returns a copy so callers cannot mutate the cached value.
func (c *eventCache) GetEvent(eventID string) (*eventdomain.Event, bool) {
	event, ok := c.events.Get(cacheKey(eventID))
	if !ok {
		return nil, false
	}
	return &event, true
}

func (c *eventCache) SetEvent(eventID string, event *eventdomain.Event) {
	if event == nil {
		return
	}
	c.events.Set(cacheKey(eventID), *event, c.ttl)
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	return strings.Join(values, "|")
}
