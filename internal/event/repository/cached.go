package repository

import (
	"context"

	"github.com/smallbiznis/clubhouse/internal/cache"
	"github.com/smallbiznis/clubhouse/internal/event/domain"
)

type cachedReader struct {
	inner domain.Reader
	cache cache.EventCache
}

// NewCachedReader serves repeat lookups of the same event from memory.
// Misses, including not-found, always fall through to inner.
func NewCachedReader(inner domain.Reader, c cache.EventCache) domain.Reader {
	if c == nil {
		return inner
	}
	return &cachedReader{inner: inner, cache: c}
}

func (r *cachedReader) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if event, ok := r.cache.GetEvent(id); ok {
		return event, nil
	}
	event, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.SetEvent(id, event)
	return event, nil
}
