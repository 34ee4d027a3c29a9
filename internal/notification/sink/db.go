package sink

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clubhouse/internal/notification/domain"
	"gorm.io/gorm"
)

type DB struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewDB(db *gorm.DB, genID *snowflake.Node) *DB {
	return &DB{db: db, genID: genID}
}

func (s *DB) Name() string { return "db" }

func (s *DB) Notify(ctx context.Context, n domain.Notification) error {
	if n.ID == 0 {
		n.ID = s.genID.Generate()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(&n).Error
}
