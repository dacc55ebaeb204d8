package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vidtube/internal/model"
)

type WatchRepository struct {
	db *gorm.DB
}

func NewWatchRepository(db *gorm.DB) *WatchRepository {
	return &WatchRepository{db: db}
}

func (r *WatchRepository) Append(ctx context.Context, entry *model.WatchEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append watch entry failed: %w", err)
	}
	return nil
}

func (r *WatchRepository) ListByUser(ctx context.Context, userID uint) ([]model.WatchEntry, error) {
	var entries []model.WatchEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list watch history failed: %w", err)
	}
	return entries, nil
}
