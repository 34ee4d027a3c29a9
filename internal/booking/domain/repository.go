package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// ExistsByEventEmail matches bookings in any status.
	ExistsByEventEmail(ctx context.Context, db *gorm.DB, eventID, emailNormalized string) (bool, error)
	// Insert returns ErrAlreadyRegistered when the unique index rejects the row.
	Insert(ctx context.Context, db *gorm.DB, b *Booking) error
	MarkCommitted(ctx context.Context, db *gorm.DB, id snowflake.ID, artifactRef string, at time.Time) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindCommitted(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	ListCommittedByEvent(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Booking, error)
}

// ListFilter pages through an event's committed bookings in id order.
// Snowflake ids grow with time, so id order is registration order.
type ListFilter struct {
	EventID string
	AfterID snowflake.ID
	Limit   int
}
