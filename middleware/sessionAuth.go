package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	sessionSvc "labcrm/services/session"
)

// Context keys set by SessionAuthMiddleware.
const (
	ContextSessionKey   = "session"
	ContextSessionIDKey = "sessionID"
)

// SessionAuthMiddleware resolves the Authorization bearer value as a console
// session id. The backend access token never reaches the browser; handlers
// pull it from the resolved session.
func SessionAuthMiddleware(sessions sessionSvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		sessionID := strings.TrimPrefix(authHeader, "Bearer ")
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired",
				"code":  0,
			})
			return
		}

		c.Set(ContextSessionKey, sess)
		c.Set(ContextSessionIDKey, sessionID)
		c.Next()
	}
}
