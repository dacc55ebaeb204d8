package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vidtube/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// CountForChannel counts subscribers of the channel.
func (r *SubscriptionRepository) CountForChannel(ctx context.Context, channelID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count channel subscribers failed: %w", err)
	}
	return count, nil
}

// CountForSubscriber counts channels the user is subscribed to.
func (r *SubscriptionRepository) CountForSubscriber(ctx context.Context, subscriberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count subscribed channels failed: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check subscription failed: %w", err)
	}
	return count > 0, nil
}

// Toggle flips the subscription edge and reports the resulting state.
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	var existing model.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("query subscription failed: %w", err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub := model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
		if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
			// A concurrent toggle may have created the edge first; that still
			// lands in the subscribed state.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return true, nil
			}
			return false, fmt.Errorf("create subscription failed: %w", err)
		}
		return true, nil
	}

	if err := r.db.WithContext(ctx).Delete(&existing).Error; err != nil {
		return false, fmt.Errorf("delete subscription failed: %w", err)
	}
	return false, nil
}
