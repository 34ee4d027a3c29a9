package ratelimit

import (
	"context"
	"errors"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/clubhouse/internal/config"
)

const keyIntakeIP = "clubhouse:intake:ip:"

// IntakeLimiter throttles public registration submissions per client IP.
// A nil limiter allows everything.
type IntakeLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewIntakeLimiter(cfg config.Config, client *redis.Client) (*IntakeLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled || client == nil {
		return nil, nil
	}
	if limitCfg.IntakeRate <= 0 || limitCfg.IntakeBurst <= 0 {
		return nil, errors.New("intake rate limit must be positive")
	}
	return &IntakeLimiter{
		bucket: NewTokenBucket(client),
		rate:   limitCfg.IntakeRate,
		burst:  limitCfg.IntakeBurst,
	}, nil
}

func (l *IntakeLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *IntakeLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = "unknown"
	}
	return l.bucket.Allow(ctx, keyIntakeIP+ip, l.rate, l.burst)
}
