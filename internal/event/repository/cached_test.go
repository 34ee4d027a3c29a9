package repository

import (
	"context"
	"testing"

	"github.com/smallbiznis/clubhouse/internal/cache"
	"github.com/smallbiznis/clubhouse/internal/event/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	calls  int
	events map[string]*domain.Event
}

func (r *countingReader) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.calls++
	if e, ok := r.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func TestCachedReaderServesRepeatLookups(t *testing.T) {
	inner := &countingReader{events: map[string]*domain.Event{"E1": {ID: "E1", Title: "Science Fair"}}}
	reader := NewCachedReader(inner, cache.NewEventCache())

	for i := 0; i < 3; i++ {
		event, err := reader.GetByID(context.Background(), "E1")
		require.NoError(t, err)
		assert.Equal(t, "Science Fair", event.Title)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedReaderDoesNotCacheMisses(t *testing.T) {
	inner := &countingReader{events: map[string]*domain.Event{}}
	reader := NewCachedReader(inner, cache.NewEventCache())

	_, err := reader.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = reader.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedReaderNilCache(t *testing.T) {
	inner := &countingReader{}
	assert.Same(t, domain.Reader(inner), NewCachedReader(inner, nil))
}
