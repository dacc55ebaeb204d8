package model

import "time"

// User is the single principal of the system. PasswordHash and RefreshToken
// never leave the process in API responses.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	FullName      string    `gorm:"size:128;not null;index" json:"fullName"`
	AvatarURL     string    `gorm:"size:512;not null" json:"avatarUrl"`
	CoverImageURL string    `gorm:"size:512" json:"coverImageUrl,omitempty"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	RefreshToken  *string   `gorm:"size:512" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
