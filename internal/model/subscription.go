package model

import "time"

// Subscription is the (subscriber, channel) edge behind channel-profile
// aggregation. A channel is just a User viewed as a subscription target.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_sub_edge;index" json:"subscriber_id"`
	ChannelID    uint      `gorm:"not null;uniqueIndex:idx_sub_edge;index" json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
