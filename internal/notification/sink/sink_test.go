package sink

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-redis/redismock/v9"
	"github.com/smallbiznis/clubhouse/internal/notification/domain"
	"github.com/smallbiznis/clubhouse/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func sampleNotification() domain.Notification {
	return domain.Notification{
		ID:        42,
		Type:      domain.TypeBookingConfirmed,
		Title:     "New registration for Science Fair",
		Payload:   datatypes.JSONMap{"booking_id": "1849", "event_id": "E1"},
		CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}
}

func TestDBSinkPersists(t *testing.T) {
	gdb := db.NewTest(t)
	require.NoError(t, gdb.AutoMigrate(&domain.Notification{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	s := NewDB(gdb, node)
	n := sampleNotification()
	n.ID = 0
	n.CreatedAt = time.Time{}
	require.NoError(t, s.Notify(context.Background(), n))

	var stored []domain.Notification
	require.NoError(t, gdb.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.NotZero(t, stored[0].ID)
	assert.False(t, stored[0].CreatedAt.IsZero())
	assert.Equal(t, "1849", stored[0].Payload["booking_id"])
}

func TestRedisSinkPublishesJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := sampleNotification()
	payload, err := json.Marshal(n)
	require.NoError(t, err)

	mock.ExpectPublish("clubhouse:notifications", payload).SetVal(1)

	require.NoError(t, NewRedis(client, "clubhouse:notifications").Notify(context.Background(), n))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSinkError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := sampleNotification()
	payload, err := json.Marshal(n)
	require.NoError(t, err)

	mock.ExpectPublish("ch", payload).SetErr(errors.New("connection reset"))

	err = NewRedis(client, "ch").Notify(context.Background(), n)
	assert.EqualError(t, err, "connection reset")
}

type stubSink struct {
	name  string
	err   error
	calls int
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Notify(context.Context, domain.Notification) error {
	s.calls++
	return s.err
}

func TestMultiContinuesPastFailure(t *testing.T) {
	failing := &stubSink{name: "redis", err: errors.New("down")}
	ok := &stubSink{name: "db"}

	err := NewMulti(zap.NewNop(), nil, failing, ok).Notify(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: down")
	assert.Equal(t, 1, ok.calls)
}

func TestMultiAllSucceed(t *testing.T) {
	a, b := &stubSink{name: "a"}, &stubSink{name: "b"}
	require.NoError(t, NewMulti(nil, nil, a, b).Notify(context.Background(), sampleNotification()))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

type recordingSlack struct {
	channel string
	text    string
}

func (r *recordingSlack) PostMessage(ctx context.Context, channelID, message string) error {
	r.channel = channelID
	r.text = message
	return nil
}

func TestSlackSinkPostsSummary(t *testing.T) {
	provider := &recordingSlack{}
	s := NewSlack(provider, "#registrations")

	err := s.Notify(context.Background(), domain.Notification{
		Type:    domain.TypeBookingConfirmed,
		Title:   "New registration for Science Fair",
		Body:    "Ada from Tech High registered.",
		Payload: datatypes.JSONMap{"booking_id": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "#registrations", provider.channel)
	assert.Equal(t, "New registration for Science Fair\nAda from Tech High registered.", provider.text)
	assert.NotContains(t, provider.text, "booking_id")
}
