package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meditrack/meditrack-api/internal/models"
	"github.com/meditrack/meditrack-api/internal/utils"
)

// Context keys set by Auth and read by the handlers.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

// Auth verifies the session token and threads the caller's identity
// through the gin context. The token travels in the HTTP-only "token"
// cookie; a Bearer header is accepted as a fallback for non-browser
// clients.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
				return
			}
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}

		claims, err := utils.ValidateJWT(secret, tokenStr)
		if err != nil || claims.UserID == "" || claims.Role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized Access"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)

		c.Next()
	}
}

// RequirePatient gates a route to Patient-role sessions.
func RequirePatient() gin.HandlerFunc { return requireRole(models.RolePatient) }

// RequireDoctor gates a route to Doctor-role sessions.
func RequireDoctor() gin.HandlerFunc { return requireRole(models.RoleDoctor) }

// RequireAdmin gates a route to Admin-role sessions.
func RequireAdmin() gin.HandlerFunc { return requireRole(models.RoleAdmin) }

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Forbidden Access"})
			return
		}
		c.Next()
	}
}
