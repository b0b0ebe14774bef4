package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie set by the auth handlers.
const CookieName = "session_id"

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

func UserIDFromContext(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// RequireSession rejects requests without a live session cookie with 401.
func RequireSession(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := "", false
		if id, err := c.Cookie(CookieName); err == nil && id != "" {
			userID, ok = sessions.GetUserID(c.Request.Context(), id)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
