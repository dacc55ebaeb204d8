package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vidtube/internal/apperr"
	"vidtube/internal/cache"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// --- fakes ---

type fakeUserStore struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]*model.User{}, nextID: 1}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.RefreshToken != nil {
		tok := *u.RefreshToken
		c.RefreshToken = &tok
	}
	return &c
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserStore) FindByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	for _, u := range f.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (f *fakeUserStore) SetRefreshToken(_ context.Context, id uint, token *string) error {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	tok := *token
	u.RefreshToken = &tok
	return nil
}

func (f *fakeUserStore) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	for column, value := range fields {
		s, _ := value.(string)
		switch column {
		case "password_hash":
			u.PasswordHash = s
		case "email":
			u.Email = s
		case "full_name":
			u.FullName = s
		case "avatar_url":
			u.AvatarURL = s
		case "cover_image_url":
			u.CoverImageURL = s
		}
	}
	return nil
}

func (f *fakeUserStore) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type subEdge struct {
	subscriber uint
	channel    uint
}

type fakeSubscriptionStore struct {
	edges map[subEdge]bool
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{edges: map[subEdge]bool{}}
}

func (f *fakeSubscriptionStore) add(subscriberID, channelID uint) {
	f.edges[subEdge{subscriberID, channelID}] = true
}

func (f *fakeSubscriptionStore) CountForChannel(_ context.Context, channelID uint) (int64, error) {
	var count int64
	for e := range f.edges {
		if e.channel == channelID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSubscriptionStore) CountForSubscriber(_ context.Context, subscriberID uint) (int64, error) {
	var count int64
	for e := range f.edges {
		if e.subscriber == subscriberID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSubscriptionStore) IsSubscribed(_ context.Context, subscriberID, channelID uint) (bool, error) {
	return f.edges[subEdge{subscriberID, channelID}], nil
}

func (f *fakeSubscriptionStore) Toggle(_ context.Context, subscriberID, channelID uint) (bool, error) {
	key := subEdge{subscriberID, channelID}
	if f.edges[key] {
		delete(f.edges, key)
		return false, nil
	}
	f.edges[key] = true
	return true, nil
}

type fakeWatchStore struct {
	entries []model.WatchEntry
}

func (f *fakeWatchStore) ListByUser(_ context.Context, userID uint) ([]model.WatchEntry, error) {
	var out []model.WatchEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []model.WatchEntry
}

func (f *fakePublisher) Publish(_ context.Context, entry model.WatchEntry) error {
	f.published = append(f.published, entry)
	return nil
}

type fakeUploader struct {
	err      error
	emptyURL bool
	uploaded []string
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.emptyURL {
		return "", nil
	}
	f.uploaded = append(f.uploaded, localPath)
	return "https://cdn.test/" + filepath.Base(localPath), nil
}

type fakeStatsCache struct {
	stats         map[uint]cache.ChannelStats
	hits          int
	invalidations int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: map[uint]cache.ChannelStats{}}
}

func (f *fakeStatsCache) Get(_ context.Context, channelID uint) (*cache.ChannelStats, bool, error) {
	s, ok := f.stats[channelID]
	if !ok {
		return nil, false, nil
	}
	f.hits++
	return &s, true, nil
}

func (f *fakeStatsCache) Set(_ context.Context, channelID uint, stats cache.ChannelStats) error {
	f.stats[channelID] = stats
	return nil
}

func (f *fakeStatsCache) Invalidate(_ context.Context, channelID uint) error {
	delete(f.stats, channelID)
	f.invalidations++
	return nil
}

// --- helpers ---

func requireAPIError(t *testing.T, err error, status int) *apperr.Error {
	t.Helper()
	var apiErr *apperr.Error
	require.True(t, errors.As(err, &apiErr), "expected *apperr.Error, got %v", err)
	require.Equal(t, status, apiErr.Status)
	return apiErr
}
