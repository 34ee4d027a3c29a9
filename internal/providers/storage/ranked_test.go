package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	name    string
	err     error
	calls   int
	removed int
}

func (s *stubStore) Name() string { return s.name }

func (s *stubStore) Put(context.Context, Object) (*Artifact, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Artifact{Locator: "/" + s.name, Strategy: s.name}, nil
}

func (s *stubStore) Remove(context.Context, *Artifact) error {
	s.removed++
	return nil
}

func TestRankedFirstSuccessWins(t *testing.T) {
	first := &stubStore{name: "remote"}
	second := &stubStore{name: "local"}

	artifact, err := NewRanked(nil, nil, first, second).Put(context.Background(), pdfObject)
	require.NoError(t, err)
	assert.Equal(t, "remote", artifact.Strategy)
	assert.Equal(t, 0, second.calls)
}

func TestRankedFallsThrough(t *testing.T) {
	first := &stubStore{name: "remote", err: errors.New("quota exceeded")}
	second := &stubStore{name: "local"}

	artifact, err := NewRanked(nil, nil, first, second).Put(context.Background(), pdfObject)
	require.NoError(t, err)
	assert.Equal(t, "local", artifact.Strategy)
	assert.Equal(t, 1, first.calls)
}

func TestRankedAllFail(t *testing.T) {
	first := &stubStore{name: "remote", err: errors.New("quota exceeded")}
	second := &stubStore{name: "local", err: errors.New("read-only file system")}

	_, err := NewRanked(nil, nil, first, second).Put(context.Background(), pdfObject)
	require.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "read-only file system")
}

func TestRankedEmpty(t *testing.T) {
	_, err := NewRanked(nil, nil).Put(context.Background(), pdfObject)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestRankedRemoveRoutesToProducer(t *testing.T) {
	first := &stubStore{name: "remote"}
	second := &stubStore{name: "local"}
	ranked := NewRanked(nil, nil, first, second)

	require.NoError(t, ranked.Remove(context.Background(), &Artifact{Strategy: "local"}))
	assert.Equal(t, 0, first.removed)
	assert.Equal(t, 1, second.removed)
	assert.Equal(t, []string{"remote", "local"}, ranked.Strategies())
}
