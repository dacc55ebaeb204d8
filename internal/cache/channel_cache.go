package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// ChannelStats holds the viewer-independent counters of a channel profile.
// The viewer-specific isSubscribed flag is never cached.
type ChannelStats struct {
	Subscribers  int64 `json:"subscribers"`
	SubscribedTo int64 `json:"subscribed_to"`
}

type ChannelStatsCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewChannelStatsCache(client *redisv9.Client, ttl time.Duration) *ChannelStatsCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ChannelStatsCache{client: client, ttl: ttl}
}

func (c *ChannelStatsCache) Get(ctx context.Context, channelID uint) (*ChannelStats, bool, error) {
	raw, err := c.client.Get(ctx, c.key(channelID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get channel stats failed: %w", err)
	}

	var stats ChannelStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached channel stats failed: %w", err)
	}
	return &stats, true, nil
}

func (c *ChannelStatsCache) Set(ctx context.Context, channelID uint, stats ChannelStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal channel stats failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(channelID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set channel stats failed: %w", err)
	}
	return nil
}

func (c *ChannelStatsCache) Invalidate(ctx context.Context, channelID uint) error {
	if err := c.client.Del(ctx, c.key(channelID)).Err(); err != nil {
		return fmt.Errorf("redis delete channel stats failed: %w", err)
	}
	return nil
}

func (c *ChannelStatsCache) key(channelID uint) string {
	return fmt.Sprintf("channel:stats:%d", channelID)
}
