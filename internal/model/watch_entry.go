package model

import "time"

// WatchEntry is one row of a user's watch history. VideoID is an opaque
// reference; the video catalog lives in another service.
type WatchEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	VideoID   uint      `gorm:"not null;index" json:"video_id"`
	WatchedAt time.Time `json:"watched_at"`
}
