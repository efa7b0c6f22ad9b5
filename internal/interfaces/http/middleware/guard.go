package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/societyos/backend/internal/domain/identity"
)

// RequireRoles allows only the named roles past. It runs after Auth;
// a missing access context reads as unauthenticated.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		access, ok := GetAccess(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"},
			})
			return
		}

		if _, ok := allowed[access.Role]; !ok {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequirePlatform allows only platform operators past
func RequirePlatform() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := GetAccess(c)
		if !ok || !access.Role.IsPlatform() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

// RequireBillingAccess allows roles that manage billing past
func RequireBillingAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := GetAccess(c)
		if !ok || !access.Role.CanManageBilling() {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error":   gin.H{"code": "FORBIDDEN", "message": "Insufficient permissions"},
	})
}
