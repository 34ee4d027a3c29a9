package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/clubhouse/pkg/db/pagination"
)

type Service interface {
	Register(ctx context.Context, in Intake) (*Booking, error)
	Verify(ctx context.Context, bookingID, registrationCode string) (*Verification, error)
	QRCode(ctx context.Context, bookingID string) (*QRCode, error)
	List(ctx context.Context, eventID string, page pagination.Pagination) (*ListResponse, error)
	Roster(ctx context.Context, eventID string) ([]byte, error)
}

type Verification struct {
	BookingID        string    `json:"bookingId"`
	RegistrationCode string    `json:"registrationId"`
	EventID          string    `json:"eventId"`
	EventTitle       string    `json:"eventTitle"`
	EventDate        string    `json:"eventDate"`
	Name             string    `json:"name"`
	School           string    `json:"school"`
	RegisteredAt     time.Time `json:"registeredAt"`
}

type QRCode struct {
	URL     string `json:"url"`
	DataURL string `json:"dataUrl"`
}

type Summary struct {
	BookingID        string    `json:"bookingId"`
	RegistrationCode string    `json:"registrationId"`
	Name             string    `json:"name"`
	School           string    `json:"school"`
	Email            string    `json:"email"`
	ParentsPhone     string    `json:"parentsPhone"`
	ArtifactRef      string    `json:"artifactRef,omitempty"`
	RegisteredAt     time.Time `json:"registeredAt"`
}

type ListResponse struct {
	Bookings []Summary           `json:"bookings"`
	PageInfo pagination.PageInfo `json:"pageInfo"`
}
