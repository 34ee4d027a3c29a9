package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/clubhouse/internal/event/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Reader {
	return &repo{db: db}
}

// GetByID reads one event row. Caching is layered on by NewCachedReader.
func (r *repo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}

	var event domain.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}
