package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/clubhouse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scriptHash = redis.NewScript(tokenBucketScript).Hash()

func TestTokenBucketAllows(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectEvalSha(scriptHash, []string{"k"}, 0.5, 5, int64(20000)).
		SetVal([]interface{}{int64(1), "4", int64(1792310400000)})

	res, err := NewTokenBucket(client).Allow(context.Background(), "k", 0.5, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, 5, res.Limit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenBucketDeniesWithRetryAfter(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectEvalSha(scriptHash, []string{"k"}, 0.5, 5, int64(20000)).
		SetVal([]interface{}{int64(0), "0.5", int64(1792310400000)})

	res, err := NewTokenBucket(client).Allow(context.Background(), "k", 0.5, 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)
}

func TestTokenBucketRedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectEvalSha(scriptHash, []string{"k"}, 1.0, 1, int64(2000)).SetErr(errors.New("connection refused"))

	_, err := NewTokenBucket(client).Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}

func TestTokenBucketRejectsBadInput(t *testing.T) {
	client, _ := redismock.NewClientMock()
	bucket := NewTokenBucket(client)

	_, err := bucket.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	assert.Error(t, err)

	var nilBucket *TokenBucket
	_, err = nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}

func TestIntakeLimiterDisabled(t *testing.T) {
	limiter, err := NewIntakeLimiter(config.Config{}, nil)
	require.NoError(t, err)
	assert.False(t, limiter.Enabled())

	res, err := limiter.AllowIP(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestIntakeLimiterKeysByIP(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := config.Config{RateLimit: config.RateLimitConfig{Enabled: true, IntakeRate: 0.5, IntakeBurst: 5}}
	limiter, err := NewIntakeLimiter(cfg, client)
	require.NoError(t, err)

	mock.ExpectEvalSha(scriptHash, []string{"clubhouse:intake:ip:10.0.0.1"}, 0.5, 5, int64(20000)).
		SetVal([]interface{}{int64(1), "4", int64(0)})

	res, err := limiter.AllowIP(context.Background(), " 10.0.0.1 ")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntakeLimiterRejectsBadConfig(t *testing.T) {
	client, _ := redismock.NewClientMock()
	cfg := config.Config{RateLimit: config.RateLimitConfig{Enabled: true}}
	_, err := NewIntakeLimiter(cfg, client)
	assert.Error(t, err)
}
