package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/clubhouse/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(newIntakeLimiter),
)

type params struct {
	fx.In

	Config config.Config
	Redis  *redis.Client `optional:"true"`
}

func newIntakeLimiter(p params) (*IntakeLimiter, error) {
	return NewIntakeLimiter(p.Config, p.Redis)
}
