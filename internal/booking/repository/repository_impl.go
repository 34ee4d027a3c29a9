package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clubhouse/internal/booking/domain"
	"github.com/smallbiznis/clubhouse/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ExistsByEventEmail(ctx context.Context, conn *gorm.DB, eventID, emailNormalized string) (bool, error) {
	var count int64
	err := conn.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("event_id = ? AND email_normalized = ?", eventID, emailNormalized).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, b *domain.Booking) error {
	err := conn.WithContext(ctx).Create(b).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrAlreadyRegistered
	}
	return err
}

func (r *repo) MarkCommitted(ctx context.Context, conn *gorm.DB, id snowflake.ID, artifactRef string, at time.Time) error {
	res := conn.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.StatusProvisional).
		Updates(map[string]any{
			"status":       domain.StatusCommitted,
			"artifact_ref": artifactRef,
			"updated_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Booking{}).Error
}

func (r *repo) FindCommitted(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Booking, error) {
	var b domain.Booking
	err := conn.WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.StatusCommitted).
		Take(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repo) ListCommittedByEvent(ctx context.Context, conn *gorm.DB, filter domain.ListFilter) ([]*domain.Booking, error) {
	q := conn.WithContext(ctx).
		Where("event_id = ? AND status = ?", filter.EventID, domain.StatusCommitted)
	if filter.AfterID != 0 {
		q = q.Where("id > ?", filter.AfterID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var items []*domain.Booking
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
