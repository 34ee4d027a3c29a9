package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/clubhouse/internal/notification/domain"
	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"go.uber.org/zap"
)

// Named is a sink that reports its name for logs and metrics.
type Named interface {
	domain.Sink
	Name() string
}

// Multi delivers to every sink and joins their failures. One failing sink
// does not stop the others.
type Multi struct {
	sinks   []Named
	metrics *obsmetrics.Metrics
	log     *zap.Logger
}

func NewMulti(log *zap.Logger, metrics *obsmetrics.Metrics, sinks ...Named) *Multi {
	if log == nil {
		log = zap.NewNop()
	}
	return &Multi{sinks: sinks, metrics: metrics, log: log.Named("notification")}
}

func (m *Multi) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Notify(ctx, n); err != nil {
			m.log.Warn("notification sink failed",
				zap.String("sink", s.Name()),
				zap.String("type", n.Type),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		m.metrics.RecordNotification(ctx, s.Name(), n.Type)
	}
	return errors.Join(errs...)
}
