package domain

import "context"

// Reader is the read-only view of events the registration pipeline depends on.
type Reader interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}
