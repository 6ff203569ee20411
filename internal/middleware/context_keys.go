package middleware

import "github.com/gin-gonic/gin"

// requesterIDKey is the key used to store the calling user's identifier in
// the Gin context. Identity is established by the upstream API gateway and
// carried on the X-Requester-ID header; this core only records it for audit
// fields, it performs no authentication of its own.
const requesterIDKey = contextKey("requesterID")

const requesterIDHeader = "X-Requester-ID"

// RequesterIDMiddleware copies the requester header into the Gin context.
func RequesterIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(requesterIDHeader); id != "" {
			c.Set(string(requesterIDKey), id)
		}
		c.Next()
	}
}

// GetRequesterIDFromContext retrieves the requester ID from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetRequesterIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(requesterIDKey))
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	if !ok {
		return "", false
	}
	return id, true
}
