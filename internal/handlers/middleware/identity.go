package middleware

import "github.com/gin-gonic/gin"

// UserIDKey is the gin context key the identity middleware sets.
const UserIDKey = "userID"

// DefaultUserID is used when no identity header is present (single-user
// local deployments).
const DefaultUserID = "local-user"

// Identity resolves the owning user for a request. Authentication is an
// external collaborator; this shim trusts the X-User-ID header the
// session layer injects, defaulting to the local user.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = DefaultUserID
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID reads the resolved user from the context.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(UserIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return DefaultUserID
}
