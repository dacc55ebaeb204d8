package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. Access tokens authenticate individual requests; refresh
// tokens exist only to mint new pairs and carry the minimal claim set.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

type Claims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"uid"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Kind     string `json:"kind"`
}

// Manager signs and verifies both token kinds with separate HMAC secrets.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) IssueAccessToken(userID uint, username, email, fullName string) (string, error) {
	return m.sign(Claims{
		RegisteredClaims: m.registered(m.accessTTL),
		UserID:           userID,
		Username:         username,
		Email:            email,
		FullName:         fullName,
		Kind:             KindAccess,
	}, m.accessSecret)
}

func (m *Manager) IssueRefreshToken(userID uint) (string, error) {
	return m.sign(Claims{
		RegisteredClaims: m.registered(m.refreshTTL),
		UserID:           userID,
		Kind:             KindRefresh,
	}, m.refreshSecret)
}

// Parse verifies signature and expiry and rejects tokens of the wrong kind,
// so a refresh token can never pass as an access token or vice versa.
func (m *Manager) Parse(tokenString, kind string) (*Claims, error) {
	secret := m.accessSecret
	if kind == KindRefresh {
		secret = m.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (m *Manager) sign(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}
