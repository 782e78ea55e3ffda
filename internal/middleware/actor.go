package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const actorCtxKey = contextKey("actorID")

// ActorHeader carries the already-resolved actor identity. Authentication and
// authorization happen upstream; the engine only records who posted.
const ActorHeader = "X-Actor-ID"

// ActorMiddleware requires the resolved-actor header on every request and
// stores the actor ID in the request context for posted_by and audit stamping.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), actorCtxKey, actorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorFromContext retrieves the actor ID from the request context.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actorID, ok := c.Request.Context().Value(actorCtxKey).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}
