package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ams-gateway/pkg/jwt"
)

// Context keys set by AuthMiddleware.
const (
	ctxUserID     = "userID"
	ctxUserEmail  = "userEmail"
	ctxUserRole   = "userRole"
	ctxStoreCodes = "storeCodes"
	ctxAuthToken  = "authToken"
)

// AuthMiddleware validates the bearer token and stashes the caller's
// identity on the context. The raw token is kept as well: the gateway
// forwards it to the inventory platform, which remains the authority on
// every permission check.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxStoreCodes, claims.StoreCodes)
		c.Set(ctxAuthToken, parts[1])

		c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" when unauthenticated.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// StoreCodes returns the store codes the caller may act for.
func StoreCodes(c *gin.Context) []string {
	v, ok := c.Get(ctxStoreCodes)
	if !ok {
		return nil
	}
	codes, _ := v.([]string)
	return codes
}

// AuthToken returns the raw bearer token for upstream forwarding.
func AuthToken(c *gin.Context) string {
	return c.GetString(ctxAuthToken)
}
