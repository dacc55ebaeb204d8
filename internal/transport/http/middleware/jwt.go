package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"vidtube/internal/apperr"
	"vidtube/internal/pkg/jwtutil"
	"vidtube/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// AuthJWT resolves the caller's identity from the Authorization header or
// the access-token cookie and aborts with 401 when neither verifies.
func AuthJWT(tokens *jwtutil.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerOrCookie(c)
		if raw == "" {
			response.Err(c, apperr.Unauthorized("missing access token"))
			c.Abort()
			return
		}

		claims, err := tokens.Parse(raw, jwtutil.KindAccess)
		if err != nil {
			response.Err(c, apperr.Unauthorized("invalid or expired access token"))
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// OptionalAuthJWT resolves the identity when a valid token is present and
// lets the request through anonymously otherwise. Used by endpoints whose
// output only varies with the viewer (channel profiles).
func OptionalAuthJWT(tokens *jwtutil.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerOrCookie(c); raw != "" {
			if claims, err := tokens.Parse(raw, jwtutil.KindAccess); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextUsernameKey, claims.Username)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or zero for anonymous callers.
func UserID(c *gin.Context) uint {
	idAny, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}
	id, ok := idAny.(uint)
	if !ok {
		return 0
	}
	return id
}

func bearerOrCookie(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(authHeader, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
