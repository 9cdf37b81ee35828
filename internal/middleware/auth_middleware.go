package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/dferraz/mercado-backend/internal/errors"
	"github.com/dferraz/mercado-backend/internal/session"
	"github.com/dferraz/mercado-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for the resolved principal
const (
	UserIDKey       = "user_id"
	UsernameKey     = "username"
	TokenIDKey      = "token_id"
	TokenExpiresKey = "token_expires"
)

type AuthMiddleware struct {
	jwtSecret string
	sessions  session.Store
}

func NewAuthMiddleware(jwtSecret string, sessions session.Store) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		sessions:  sessions,
	}
}

// RequireSession resolves the principal from the session token and aborts
// with 401 when there is none. The principal is resolved once here and
// read from the request context by handlers, never from global state.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := util.ValidateSessionToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Session token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "session expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "invalid session token")
			}
			c.Abort()
			return
		}

		revoked, err := m.sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Error("Failed to check session revocation", err, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.InternalError(c, err, "check session")
			c.Abort()
			return
		}
		if revoked {
			log.Warn("Rejected revoked session token", map[string]interface{}{
				"user_id": claims.UserID,
				"path":    c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "session has been logged out")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(TokenIDKey, claims.ID)
		c.Set(TokenExpiresKey, claims.ExpiresAt.Time)

		log.Debug("Session authenticated", map[string]interface{}{
			"user_id":  claims.UserID,
			"username": claims.Username,
		})

		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the request context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUsername extracts the authenticated user's name from the request context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetTokenID extracts the session id (jti) from the request context
func GetTokenID(c *gin.Context) (string, bool) {
	tokenID, exists := c.Get(TokenIDKey)
	if !exists {
		return "", false
	}
	return tokenID.(string), true
}

// GetTokenExpiry extracts the session token expiry from the request context
func GetTokenExpiry(c *gin.Context) (time.Time, bool) {
	expires, exists := c.Get(TokenExpiresKey)
	if !exists {
		return time.Time{}, false
	}
	return expires.(time.Time), true
}
