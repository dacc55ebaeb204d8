package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vidtube/internal/pkg/jwtutil"
	"vidtube/internal/pkg/password"
)

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeUploader) {
	store := newFakeUserStore()
	uploader := &fakeUploader{}
	tokens := jwtutil.NewManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewAuthService(store, tokens, uploader), store, uploader
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FullName:   "Chai Aur Code",
		Email:      "chai@example.com",
		Username:   "chai",
		Password:   "secret-password",
		AvatarPath: "/tmp/avatar.png",
	}
}

func registerTestUser(t *testing.T, svc *AuthService) uint {
	t.Helper()
	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	return user.ID
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()
	svc, store, uploader := newTestAuthService()

	input := validRegisterInput()
	input.Username = "  ChaiTime  "
	input.Email = "  Chai@Example.COM "
	input.CoverImagePath = "/tmp/cover.png"

	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, "chaitime", user.Username)
	require.Equal(t, "chai@example.com", user.Email)
	require.Equal(t, "https://cdn.test/avatar.png", user.AvatarURL)
	require.Equal(t, "https://cdn.test/cover.png", user.CoverImageURL)
	require.NotEqual(t, input.Password, user.PasswordHash)
	require.True(t, password.Verify("secret-password", user.PasswordHash))
	require.Nil(t, user.RefreshToken)
	require.Len(t, store.users, 1)
	require.Len(t, uploader.uploaded, 2)
}

func TestRegisterEmptyPassword(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAuthService()

	input := validRegisterInput()
	input.Password = "   "

	_, err := svc.Register(context.Background(), input)
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	require.Contains(t, apiErr.Errors, "password")
	require.Empty(t, store.users)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()
	registerTestUser(t, svc)

	input := validRegisterInput()
	input.Email = "other@example.com"

	_, err := svc.Register(context.Background(), input)
	apiErr := requireAPIError(t, err, http.StatusConflict)
	require.Contains(t, apiErr.Message, "username")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()
	registerTestUser(t, svc)

	input := validRegisterInput()
	input.Username = "otheruser"

	_, err := svc.Register(context.Background(), input)
	apiErr := requireAPIError(t, err, http.StatusConflict)
	require.Contains(t, apiErr.Message, "email")
}

func TestRegisterMissingAvatar(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAuthService()

	input := validRegisterInput()
	input.AvatarPath = ""

	_, err := svc.Register(context.Background(), input)
	requireAPIError(t, err, http.StatusBadRequest)
	require.Empty(t, store.users)
}

func TestRegisterUploadFailureCreatesNoUser(t *testing.T) {
	t.Parallel()
	svc, store, uploader := newTestAuthService()
	uploader.emptyURL = true

	_, err := svc.Register(context.Background(), validRegisterInput())
	requireAPIError(t, err, http.StatusBadRequest)
	require.Empty(t, store.users)
}

func TestLoginWithUsernameOnly(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAuthService()
	userID := registerTestUser(t, svc)

	result, err := svc.Login(context.Background(), LoginInput{
		Username: "chai",
		Password: "secret-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	stored := store.users[userID]
	require.NotNil(t, stored.RefreshToken)
	require.Equal(t, result.RefreshToken, *stored.RefreshToken)
}

func TestLoginWithEmailOnly(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()
	registerTestUser(t, svc)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "chai@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	require.Equal(t, "chai", result.User.Username)
}

func TestLoginRequiresUsernameOrEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), LoginInput{Password: "whatever"})
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "pw"})
	requireAPIError(t, err, http.StatusNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()
	registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), LoginInput{Username: "chai", Password: "wrong"})
	requireAPIError(t, err, http.StatusUnauthorized)
}

func TestLoginOverwritesPreviousSession(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAuthService()
	userID := registerTestUser(t, svc)

	first, err := svc.Login(context.Background(), LoginInput{Username: "chai", Password: "secret-password"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), LoginInput{Username: "chai", Password: "secret-password"})
	require.NoError(t, err)

	stored := store.users[userID]
	require.NotNil(t, stored.RefreshToken)
	require.Equal(t, second.RefreshToken, *stored.RefreshToken)

	// The first session's refresh token was rotated out.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	apiErr := requireAPIError(t, err, http.StatusUnauthorized)
	require.Contains(t, apiErr.Message, "expired or used")
}

func TestRefreshRotatesPair(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAuthService()
	userID := registerTestUser(t, svc)

	login, err := svc.Login(context.Background(), LoginInput{Username: "chai", Password: "secret-password"})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	stored := store.users[userID]
	require.Equal(t, pair.RefreshToken, *stored.RefreshToken)

	// Reusing the rotated-out token must fail.
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized)
}

func TestRefreshMissingToken(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()

	_, err := svc.Refresh(context.Background(), "")
	requireAPIError(t, err, http.StatusUnauthorized)
}

func TestRefreshGarbageToken(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()

	_, err := svc.Refresh(context.Background(), "not-a-token")
	requireAPIError(t, err, http.StatusUnauthorized)
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAuthService()
	userID := registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), LoginInput{Username: "chai", Password: "secret-password"})
	require.NoError(t, err)
	require.NotNil(t, store.users[userID].RefreshToken)

	require.NoError(t, svc.Logout(context.Background(), userID))
	require.Nil(t, store.users[userID].RefreshToken)

	require.NoError(t, svc.Logout(context.Background(), userID))
	require.Nil(t, store.users[userID].RefreshToken)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAuthService()
	userID := registerTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), userID, "wrong-old", "new-password")
	apiErr := requireAPIError(t, err, http.StatusUnauthorized)
	require.Contains(t, apiErr.Message, "old password")

	require.NoError(t, svc.ChangePassword(context.Background(), userID, "secret-password", "new-password"))
	require.True(t, password.Verify("new-password", store.users[userID].PasswordHash))

	_, err = svc.Login(context.Background(), LoginInput{Username: "chai", Password: "new-password"})
	require.NoError(t, err)
}

func TestChangePasswordEmptyNew(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAuthService()
	userID := registerTestUser(t, svc)

	err := svc.ChangePassword(context.Background(), userID, "secret-password", "  ")
	requireAPIError(t, err, http.StatusBadRequest)
}
