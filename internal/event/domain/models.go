package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var ErrNotFound = errors.New("event_not_found")

// Event is owned by the admin subsystem; registration only reads it.
type Event struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Dates           datatypes.JSON `gorm:"not null" json:"dates"`
	StartTime       string         `json:"start_time,omitempty"`
	EndTime         string         `json:"end_time,omitempty"`
	Venue           string         `json:"venue,omitempty"`
	Location        string         `json:"location,omitempty"`
	Eligibility     string         `json:"eligibility,omitempty"`
	Description     string         `json:"description,omitempty"`
	FullDescription string         `json:"full_description,omitempty"`
	Agenda          string         `json:"agenda,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// DateValues decodes the stored date list. A single scalar is accepted as a
// one-element list.
func (e *Event) DateValues() ([]DateValue, error) {
	raw := strings.TrimSpace(string(e.Dates))
	if raw == "" || raw == "null" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "[") {
		var single DateValue
		if err := json.Unmarshal([]byte(raw), &single); err != nil {
			return nil, fmt.Errorf("decode event date: %w", err)
		}
		return []DateValue{single}, nil
	}
	var values []DateValue
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode event dates: %w", err)
	}
	return values, nil
}

// Instants normalizes every event date. Unparseable entries are skipped.
func (e *Event) Instants() []time.Time {
	values, err := e.DateValues()
	if err != nil {
		return nil
	}
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, err := v.Instant()
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DateLabel renders the event dates for display, e.g. "18 Oct 2026, 19 Oct 2026".
func (e *Event) DateLabel(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	values, err := e.DateValues()
	if err != nil {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		t, err := v.In(loc)
		if err != nil {
			continue
		}
		parts = append(parts, t.Format("02 Jan 2006"))
	}
	return strings.Join(parts, ", ")
}

// TimeLabel joins start and end time when present.
func (e *Event) TimeLabel() string {
	start := strings.TrimSpace(e.StartTime)
	end := strings.TrimSpace(e.EndTime)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

// VenueLabel prefers the venue name and appends the location when both exist.
func (e *Event) VenueLabel() string {
	venue := strings.TrimSpace(e.Venue)
	location := strings.TrimSpace(e.Location)
	switch {
	case venue != "" && location != "" && !strings.EqualFold(venue, location):
		return venue + ", " + location
	case venue != "":
		return venue
	default:
		return location
	}
}

// Summary returns the short description, falling back to the full one.
func (e *Event) Summary() string {
	if d := strings.TrimSpace(e.Description); d != "" {
		return d
	}
	return strings.TrimSpace(e.FullDescription)
}
