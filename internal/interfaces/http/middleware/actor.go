package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActorIDHeader identifies the user performing the request
const ActorIDHeader = "X-Actor-ID"

const actorContextKey = "actor_id"

// Actor extracts the acting user's id from the request header and
// stores it in the gin context. Callback endpoints run without an
// actor and fall back to the seeded system user downstream.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(ActorIDHeader); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Set(actorContextKey, id)
			}
		}
		c.Next()
	}
}

// GetActorID returns the acting user's id, or uuid.Nil when absent
func GetActorID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(actorContextKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
