package storage

import (
	"context"
	"errors"
)

var (
	ErrStorage       = errors.New("artifact_store_failed")
	ErrInvalidObject = errors.New("artifact_invalid_object")
)

// Object is one rendered artifact to persist.
type Object struct {
	// Key is the registration code; remote stores suffix it with BookingID.
	Key         string
	BookingID   string
	EventTitle  string
	ContentType string
	Bytes       []byte
}

// Artifact locates a stored object.
type Artifact struct {
	Locator  string
	Strategy string
	// RemoteID and ResourceType identify remote objects for removal.
	RemoteID     string
	ResourceType string
}

type Store interface {
	Name() string
	Put(ctx context.Context, obj Object) (*Artifact, error)
}

// Remover is implemented by stores that can delete what they stored.
type Remover interface {
	Remove(ctx context.Context, artifact *Artifact) error
}

// ArtifactStore is the storage surface the registration pipeline consumes.
type ArtifactStore interface {
	Put(ctx context.Context, obj Object) (*Artifact, error)
	Remover
}

func (o Object) validate() error {
	if len(o.Bytes) == 0 {
		return errors.New("artifact_empty")
	}
	return nil
}
