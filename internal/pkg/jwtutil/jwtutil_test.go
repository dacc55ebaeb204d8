package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *Manager {
	return NewManager("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)
	token, err := m.IssueAccessToken(42, "chai", "chai@example.com", "Chai Aur Code")
	require.NoError(t, err)

	claims, err := m.Parse(token, KindAccess)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "chai", claims.Username)
	require.Equal(t, "chai@example.com", claims.Email)
	require.Equal(t, "Chai Aur Code", claims.FullName)
	require.Equal(t, KindAccess, claims.Kind)
}

func TestRefreshTokenCarriesMinimalClaims(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)
	token, err := m.IssueRefreshToken(7)
	require.NoError(t, err)

	claims, err := m.Parse(token, KindRefresh)
	require.NoError(t, err)
	require.Equal(t, uint(7), claims.UserID)
	require.Empty(t, claims.Username)
	require.Empty(t, claims.Email)
	require.Empty(t, claims.FullName)
}

func TestParseRejectsWrongKind(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)

	refresh, err := m.IssueRefreshToken(7)
	require.NoError(t, err)
	_, err = m.Parse(refresh, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)

	access, err := m.IssueAccessToken(7, "u", "u@example.com", "U")
	require.NoError(t, err)
	_, err = m.Parse(access, KindRefresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	t.Parallel()

	m := newTestManager(-time.Minute, -time.Minute)
	token, err := m.IssueAccessToken(1, "u", "u@example.com", "U")
	require.NoError(t, err)

	_, err = m.Parse(token, KindAccess)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseWrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)
	other := NewManager("other-access", "other-refresh", time.Hour, time.Hour)

	token, err := m.IssueAccessToken(1, "u", "u@example.com", "U")
	require.NoError(t, err)

	_, err = other.Parse(token, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	m := newTestManager(time.Hour, time.Hour)
	_, err := m.Parse("not.a.jwt", KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}
