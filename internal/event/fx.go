package event

import (
	"github.com/smallbiznis/clubhouse/internal/cache"
	"github.com/smallbiznis/clubhouse/internal/event/domain"
	"github.com/smallbiznis/clubhouse/internal/event/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("event.reader",
	fx.Provide(cache.NewEventCache),
	fx.Provide(newReader),
)

func newReader(db *gorm.DB, c cache.EventCache) domain.Reader {
	return repository.NewCachedReader(repository.Provide(db), c)
}
