package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"vidtube/internal/apperr"
	"vidtube/internal/cache"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// ProfileService covers everything about a user that is not session state:
// account fields, media references, the channel profile view, subscriptions
// and watch history.
type ProfileService struct {
	users    UserStore
	subs     SubscriptionStore
	watch    WatchStore
	uploader media.Uploader
	stats    StatsCache
	events   WatchPublisher
}

type UpdateAccountInput struct {
	Email    string
	FullName string
}

type ChannelProfile struct {
	ID                        uint   `json:"id"`
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
	AvatarURL                 string `json:"avatarUrl"`
	CoverImageURL             string `json:"coverImageUrl,omitempty"`
	Email                     string `json:"email"`
}

func NewProfileService(users UserStore, subs SubscriptionStore, watch WatchStore, uploader media.Uploader, stats StatsCache, events WatchPublisher) *ProfileService {
	return &ProfileService{
		users:    users,
		subs:     subs,
		watch:    watch,
		uploader: uploader,
		stats:    stats,
		events:   events,
	}
}

func (s *ProfileService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user does not exist")
	}
	return user, nil
}

func (s *ProfileService) UpdateAccount(ctx context.Context, userID uint, input UpdateAccountInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := strings.TrimSpace(input.FullName)
	if email == "" && fullName == "" {
		return nil, apperr.Validation("email or full name is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user does not exist")
	}

	fields := map[string]interface{}{}
	if email != "" {
		if email == user.Email {
			return nil, apperr.Validation("provide a new email")
		}
		taken, err := s.users.EmailTaken(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("email already in use")
		}
		fields["email"] = email
		user.Email = email
	}
	if fullName != "" {
		if fullName == user.FullName {
			return nil, apperr.Validation("provide a new full name")
		}
		fields["full_name"] = fullName
		user.FullName = fullName
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		// The unique index closes the race the EmailTaken pre-check leaves open.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, err
	}
	s.invalidateStats(ctx, userID)
	return user, nil
}

func (s *ProfileService) UpdateAvatar(ctx context.Context, userID uint, localPath string) (*model.User, error) {
	return s.updateImage(ctx, userID, localPath, "avatar_url", "avatar")
}

func (s *ProfileService) UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*model.User, error) {
	return s.updateImage(ctx, userID, localPath, "cover_image_url", "cover image")
}

func (s *ProfileService) updateImage(ctx context.Context, userID uint, localPath, column, label string) (*model.User, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, apperr.Validation(label + " file is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user does not exist")
	}

	url, err := s.uploader.Upload(ctx, localPath)
	if err != nil || url == "" {
		return nil, apperr.Upload(label + " upload failed")
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{column: url}); err != nil {
		return nil, err
	}
	if column == "avatar_url" {
		user.AvatarURL = url
	} else {
		user.CoverImageURL = url
	}
	s.invalidateStats(ctx, userID)
	return user, nil
}

// ChannelProfile resolves a channel by username and decorates it with
// subscription counters and the viewer's subscription state. Counters are
// served from the cache when warm; isSubscribed is always computed live.
// viewerID zero means an anonymous viewer.
func (s *ProfileService) ChannelProfile(ctx context.Context, username string, viewerID uint) (*ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.Validation("username is required")
	}

	channel, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, apperr.NotFound("channel does not exist")
	}

	stats, err := s.channelStats(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID != 0 {
		isSubscribed, err = s.subs.IsSubscribed(ctx, viewerID, channel.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ChannelProfile{
		ID:                        channel.ID,
		FullName:                  channel.FullName,
		Username:                  channel.Username,
		SubscribersCount:          stats.Subscribers,
		ChannelsSubscribedToCount: stats.SubscribedTo,
		IsSubscribed:              isSubscribed,
		AvatarURL:                 channel.AvatarURL,
		CoverImageURL:             channel.CoverImageURL,
		Email:                     channel.Email,
	}, nil
}

// ToggleSubscription flips the viewer's subscription to the channel and
// reports the resulting state.
func (s *ProfileService) ToggleSubscription(ctx context.Context, viewerID uint, channelUsername string) (bool, error) {
	channelUsername = strings.ToLower(strings.TrimSpace(channelUsername))
	if channelUsername == "" {
		return false, apperr.Validation("username is required")
	}

	channel, err := s.users.FindByUsername(ctx, channelUsername)
	if err != nil {
		return false, err
	}
	if channel == nil {
		return false, apperr.NotFound("channel does not exist")
	}
	if channel.ID == viewerID {
		return false, apperr.Validation("cannot subscribe to your own channel")
	}

	subscribed, err := s.subs.Toggle(ctx, viewerID, channel.ID)
	if err != nil {
		return false, err
	}
	s.invalidateStats(ctx, channel.ID)
	return subscribed, nil
}

// RecordWatch publishes a watch event; persistence happens asynchronously in
// the watch worker.
func (s *ProfileService) RecordWatch(ctx context.Context, userID, videoID uint) error {
	if videoID == 0 {
		return apperr.Validation("video id is required")
	}
	return s.events.Publish(ctx, model.WatchEntry{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	})
}

func (s *ProfileService) WatchHistory(ctx context.Context, userID uint) ([]model.WatchEntry, error) {
	return s.watch.ListByUser(ctx, userID)
}

// channelStats reads the counters from the cache, falling back to two
// indexed count queries. Cache failures degrade to the store, never to an
// error response.
func (s *ProfileService) channelStats(ctx context.Context, channelID uint) (*cache.ChannelStats, error) {
	if s.stats != nil {
		stats, hit, err := s.stats.Get(ctx, channelID)
		if err != nil {
			log.Printf("channel stats cache read failed: %v", err)
		} else if hit {
			return stats, nil
		}
	}

	subscribers, err := s.subs.CountForChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subs.CountForSubscriber(ctx, channelID)
	if err != nil {
		return nil, err
	}

	stats := cache.ChannelStats{Subscribers: subscribers, SubscribedTo: subscribedTo}
	if s.stats != nil {
		if err := s.stats.Set(ctx, channelID, stats); err != nil {
			log.Printf("channel stats cache write failed: %v", err)
		}
	}
	return &stats, nil
}

func (s *ProfileService) invalidateStats(ctx context.Context, channelID uint) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx, channelID); err != nil {
		log.Printf("channel stats cache invalidate failed: %v", err)
	}
}
