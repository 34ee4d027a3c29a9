package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusProvisional Status = "provisional"
	StatusCommitted   Status = "committed"
)

// Booking is one registrant's registration for an event. Provisional rows
// exist only while a registration run is in flight.
type Booking struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	EventID          string       `gorm:"column:event_id;type:text;not null;uniqueIndex:ux_bookings_event_email,priority:1"`
	RegistrationCode string       `gorm:"column:registration_code;type:text;not null;index"`
	Name             string       `gorm:"type:text;not null"`
	School           string       `gorm:"type:text;not null"`
	Email            string       `gorm:"type:text;not null"`
	EmailNormalized  string       `gorm:"column:email_normalized;type:text;not null;uniqueIndex:ux_bookings_event_email,priority:2"`
	Phone            string       `gorm:"type:text;not null;default:''"`
	ParentsPhone     string       `gorm:"column:parents_phone;type:text;not null"`
	Information      string       `gorm:"type:text;not null;default:''"`
	Status           Status       `gorm:"type:text;not null;index"`
	ArtifactRef      *string      `gorm:"column:artifact_ref;type:text"`
	CreatedAt        time.Time    `gorm:"not null"`
	UpdatedAt        time.Time    `gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) Committed() bool {
	return b != nil && b.Status == StatusCommitted
}
