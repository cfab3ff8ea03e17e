package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key used to store the acting identity in the request
// context. Authentication itself lives outside this service; the upstream
// gateway forwards the resolved identity in a header.
const actorKey = contextKey("actor")

// ActorHeader is the header the gateway uses for the acting identity.
const ActorHeader = "X-Actor-ID"

// ActorMiddleware copies the forwarded actor identity into the Gin context.
// Adapters without a user context (batch posting, migrations) fall back to
// "system".
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = "system"
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting identity from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return "system"
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return "system"
	}
	return actor
}
