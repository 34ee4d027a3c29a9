package tracing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsAttendeeData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/bookings"),
		attribute.String("attendee.email", "a@b.com"),
		attribute.String("parents_phone", "01711111111"),
		attribute.String("booking.id", "42"),
	)

	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, string(a.Key))
	}
	assert.Equal(t, []string{"http.route", "booking.id"}, keys)
}

func TestSafeErrorTruncates(t *testing.T) {
	assert.Nil(t, SafeError(nil))

	long := errors.New(strings.Repeat("x", 1000))
	got := SafeError(long)
	assert.Len(t, got.Error(), maxErrorLength)
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.25, clampRatio(0.25))
}
