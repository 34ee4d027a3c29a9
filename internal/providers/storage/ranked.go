package storage

import (
	"context"
	"errors"
	"fmt"

	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"go.uber.org/zap"
)

// Ranked tries each store in order and returns the first success.
type Ranked struct {
	stores  []Store
	metrics *obsmetrics.SagaMetrics
	log     *zap.Logger
}

func NewRanked(log *zap.Logger, metrics *obsmetrics.SagaMetrics, stores ...Store) *Ranked {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ranked{
		stores:  stores,
		metrics: metrics,
		log:     log.Named("storage.ranked"),
	}
}

func (r *Ranked) Name() string { return "ranked" }

func (r *Ranked) Strategies() []string {
	names := make([]string, 0, len(r.stores))
	for _, s := range r.stores {
		names = append(names, s.Name())
	}
	return names
}

func (r *Ranked) Put(ctx context.Context, obj Object) (*Artifact, error) {
	if len(r.stores) == 0 {
		return nil, fmt.Errorf("%w: no storage strategy configured", ErrStorage)
	}

	var errs []error
	for _, store := range r.stores {
		artifact, err := store.Put(ctx, obj)
		r.metrics.RecordStorageAttempt(store.Name(), err)
		if err == nil {
			return artifact, nil
		}
		r.log.Warn("storage strategy failed",
			zap.String("strategy", store.Name()),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrStorage, errors.Join(errs...))
}

// Remove deletes artifact from the store that produced it, when it can.
func (r *Ranked) Remove(ctx context.Context, artifact *Artifact) error {
	if artifact == nil {
		return nil
	}
	for _, store := range r.stores {
		if store.Name() != artifact.Strategy {
			continue
		}
		if remover, ok := store.(Remover); ok {
			return remover.Remove(ctx, artifact)
		}
	}
	return nil
}
