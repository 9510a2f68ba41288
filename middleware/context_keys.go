package middleware

import "github.com/gin-gonic/gin"

// contextKey defines a type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey holds the authenticated user's id as an int64.
	UserIDKey contextKey = "userID"
	// RequestIDKey holds the request id string.
	RequestIDKey contextKey = "request_id"
)

// GetUserID returns the id stored by AuthMiddleware.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(string(UserIDKey))
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
