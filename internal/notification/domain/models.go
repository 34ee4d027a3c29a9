package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const TypeBookingConfirmed = "booking.confirmed"

// Notification is an entry in the shared admin feed.
type Notification struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	Type      string            `gorm:"type:text;not null;index" json:"type"`
	Title     string            `gorm:"type:text;not null" json:"title"`
	Body      string            `gorm:"type:text" json:"body,omitempty"`
	Payload   datatypes.JSONMap `gorm:"type:json" json:"payload,omitempty"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Sink accepts notifications. Writers other than the registration pipeline
// may share the same sink.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}
