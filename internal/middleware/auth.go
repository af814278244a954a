package middleware

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ManuelBanchero/roadmap-sh-projects/internal/models"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/session"
)

const userIDContextKey = "user_id"

// UserIDFromContext returns the authenticated user id set by RequireAuth.
func UserIDFromContext(c *gin.Context) (int, bool) {
	value, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int)
	return userID, ok
}

// currentUserID resolves the session cookie to a user id.
func currentUserID(c *gin.Context, sessions *session.Store) (int, error) {
	token, err := c.Cookie(session.CookieName)
	if err != nil {
		return 0, session.ErrNotFound
	}
	return sessions.Get(c.Request.Context(), token)
}

// RequireAuth passes the request through only when the session cookie
// resolves to a user id.
func RequireAuth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUserID(c, sessions)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Printf("Error resolving session: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// RequireAdmin additionally checks the stored role of the session's user.
// No session at all is 401; a session for a non-admin user is 403.
func RequireAdmin(db *sql.DB, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUserID(c, sessions)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Printf("Error resolving session: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var role string
		err = db.QueryRow(`SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
		if err != nil {
			log.Printf("Error looking up role for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Admin only."})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}
