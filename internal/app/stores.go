package app

import (
	"context"

	"vidtube/internal/cache"
	"vidtube/internal/model"
)

// UserStore is the persistence surface the workflows need. The gorm-backed
// repository implements it; tests substitute in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	SetRefreshToken(ctx context.Context, id uint, token *string) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

type SubscriptionStore interface {
	CountForChannel(ctx context.Context, channelID uint) (int64, error)
	CountForSubscriber(ctx context.Context, subscriberID uint) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error)
	Toggle(ctx context.Context, subscriberID, channelID uint) (bool, error)
}

type WatchStore interface {
	ListByUser(ctx context.Context, userID uint) ([]model.WatchEntry, error)
}

// WatchPublisher hands watch events to the broker; a worker persists them.
type WatchPublisher interface {
	Publish(ctx context.Context, entry model.WatchEntry) error
}

// StatsCache caches viewer-independent channel counters. It is optional;
// a nil cache means every profile read hits the store.
type StatsCache interface {
	Get(ctx context.Context, channelID uint) (*cache.ChannelStats, bool, error)
	Set(ctx context.Context, channelID uint, stats cache.ChannelStats) error
	Invalidate(ctx context.Context, channelID uint) error
}
