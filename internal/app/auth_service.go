package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vidtube/internal/apperr"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/pkg/jwtutil"
	"vidtube/internal/pkg/password"
	"vidtube/internal/repository"
)

// AuthService owns the session lifecycle: register, login, logout, refresh
// rotation and password changes.
type AuthService struct {
	users    UserStore
	tokens   *jwtutil.Manager
	uploader media.Uploader
}

type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func NewAuthService(users UserStore, tokens *jwtutil.Manager, uploader media.Uploader) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		uploader: uploader,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.ToLower(strings.TrimSpace(input.Username))
	plain := strings.TrimSpace(input.Password)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"fullName", fullName},
		{"email", email},
		{"username", username},
		{"password", plain},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("all fields are required", missing...)
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Username == username {
			return nil, apperr.Conflict("user with this username already exists")
		}
		return nil, apperr.Conflict("user with this email already exists")
	}

	if strings.TrimSpace(input.AvatarPath) == "" {
		return nil, apperr.Validation("avatar image is required")
	}

	// Uploads happen before the insert so a failed upload never leaves a
	// user row behind.
	avatarURL, err := s.uploader.Upload(ctx, input.AvatarPath)
	if err != nil || avatarURL == "" {
		return nil, apperr.Upload("avatar upload failed")
	}

	var coverURL string
	if strings.TrimSpace(input.CoverImagePath) != "" {
		coverURL, err = s.uploader.Upload(ctx, input.CoverImagePath)
		if err != nil {
			return nil, apperr.Upload("cover image upload failed")
		}
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		PasswordHash:  hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique index closes the race the pre-check leaves open.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperr.Conflict("user with this username or email already exists")
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" && email == "" {
		return nil, apperr.Validation("username or email is required")
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user does not exist")
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("invalid user credentials")
	}

	pair, err := s.issueAndStorePair(ctx, user)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = &pair.RefreshToken

	return &LoginResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout clears the stored refresh token. Clearing an already cleared token
// is a no-op, so repeated logouts converge on the same state.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}

// Refresh rotates the session: it validates the presented refresh token,
// checks it is the one currently stored for the user, and replaces it with a
// fresh pair. A rotated-out token presented again is rejected.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, apperr.Unauthorized("refresh token is required")
	}

	claims, err := s.tokens.Parse(presented, jwtutil.KindRefresh)
	if err != nil {
		if errors.Is(err, jwtutil.ErrExpiredToken) {
			return nil, apperr.Unauthorized("refresh token expired")
		}
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		return nil, apperr.Unauthorized("refresh token is expired or used")
	}

	return s.issueAndStorePair(ctx, user)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperr.Validation("new password is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user does not exist")
	}

	if !password.Verify(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("invalid old password")
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": hash})
}

func (s *AuthService) issueAndStorePair(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.ID, user.Username, user.Email, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("issue access token failed: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token failed: %w", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
