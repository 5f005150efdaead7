package middleware

import (
	"net/http"
	"strings"

	"bbq-storefront/utils"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey   = "session"
	sessionIDKey = "session_id"

	// SessionHeader carries the session token for clients that cannot set
	// an Authorization header.
	SessionHeader = "X-Session-Token"
)

func sessionToken(c *gin.Context) (string, bool) {
	if token := c.GetHeader(SessionHeader); token != "" {
		return token, true
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// SessionMiddleware resolves the shopper's session from a signed token.
func SessionMiddleware(secret string, sessions *utils.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session token required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateSessionToken(secret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Set(sessionKey, sessions.GetOrCreate(claims.SessionID))
		c.Next()
	}
}

// CurrentSession returns the session resolved by SessionMiddleware.
func CurrentSession(c *gin.Context) (*utils.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*utils.Session)
	return s, ok
}
