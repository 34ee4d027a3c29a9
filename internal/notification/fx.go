package notification

import (
	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/clubhouse/internal/config"
	"github.com/smallbiznis/clubhouse/internal/notification/domain"
	"github.com/smallbiznis/clubhouse/internal/notification/sink"
	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"github.com/smallbiznis/clubhouse/internal/providers/slack"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("notification",
	fx.Provide(NewSink),
)

type Params struct {
	fx.In

	DB      *gorm.DB
	GenID   *snowflake.Node
	Config  config.Config
	Log     *zap.Logger
	Redis   *redis.Client       `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

// NewSink always writes to the notifications table. Redis and Slack are
// added when configured.
func NewSink(p Params) domain.Sink {
	sinks := []sink.Named{sink.NewDB(p.DB, p.GenID)}
	if p.Redis != nil && p.Config.Notifications.RedisChannel != "" {
		sinks = append(sinks, sink.NewRedis(p.Redis, p.Config.Notifications.RedisChannel))
	}
	if url := p.Config.Notifications.SlackWebhookURL; url != "" {
		sinks = append(sinks, sink.NewSlack(slack.NewWebhookProvider(url, nil), p.Config.Notifications.SlackChannel))
	}
	return sink.NewMulti(p.Log, p.Metrics, sinks...)
}
