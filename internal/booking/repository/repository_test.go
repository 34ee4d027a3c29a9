package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clubhouse/internal/booking/domain"
	"github.com/smallbiznis/clubhouse/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(id snowflake.ID, email string) *domain.Booking {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:               id,
		EventID:          "E1",
		RegistrationCode: "REG-20261018-ABCDE",
		Name:             "Ada",
		School:           "Tech High",
		Email:            email,
		EmailNormalized:  domain.NormalizeEmail(email),
		ParentsPhone:     "01712345678",
		Status:           domain.StatusProvisional,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestRepositoryLifecycle(t *testing.T) {
	conn := db.NewTest(t)
	require.NoError(t, conn.AutoMigrate(&domain.Booking{}))
	r := Provide()
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, conn, newBooking(1, "ada@example.com")))

	exists, err := r.ExistsByEventEmail(ctx, conn, "E1", "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists, "provisional rows count as registered")

	_, err = r.FindCommitted(ctx, conn, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, r.MarkCommitted(ctx, conn, 1, "/uploads/events/e1/booking-1.pdf", time.Now()))
	assert.ErrorIs(t, r.MarkCommitted(ctx, conn, 1, "again", time.Now()), domain.ErrNotFound)

	found, err := r.FindCommitted(ctx, conn, 1)
	require.NoError(t, err)
	require.NotNil(t, found.ArtifactRef)
	assert.Equal(t, "/uploads/events/e1/booking-1.pdf", *found.ArtifactRef)

	require.NoError(t, r.Delete(ctx, conn, 1))
	exists, err = r.ExistsByEventEmail(ctx, conn, "E1", "ada@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInsertDuplicateMapsToAlreadyRegistered(t *testing.T) {
	conn := db.NewTest(t)
	require.NoError(t, conn.AutoMigrate(&domain.Booking{}))
	r := Provide()
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, conn, newBooking(1, "ada@example.com")))
	err := r.Insert(ctx, conn, newBooking(2, "ADA@example.com"))
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	other := newBooking(3, "ada@example.com")
	other.EventID = "E2"
	assert.NoError(t, r.Insert(ctx, conn, other))
}

func TestListCommittedByEvent(t *testing.T) {
	conn := db.NewTest(t)
	require.NoError(t, conn.AutoMigrate(&domain.Booking{}))
	r := Provide()
	ctx := context.Background()

	for i, addr := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"} {
		id := snowflake.ID(i + 1)
		require.NoError(t, r.Insert(ctx, conn, newBooking(id, addr)))
		if addr != "c@x.io" {
			require.NoError(t, r.MarkCommitted(ctx, conn, id, "ref", time.Now()))
		}
	}

	items, err := r.ListCommittedByEvent(ctx, conn, domain.ListFilter{EventID: "E1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.EqualValues(t, 1, items[0].ID)

	items, err = r.ListCommittedByEvent(ctx, conn, domain.ListFilter{EventID: "E1", AfterID: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 4, items[0].ID)
}
