package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// contextBrandKey carries the authenticated brand through the request.
	contextBrandKey = "webhookBrand"
	contextKeyIDKey = "webhookKeyID"
)

// APIKeyAuthMiddleware validates the X-Webhook-API-Key header and sets the
// brand context on the gin context.
func APIKeyAuthMiddleware(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-Webhook-API-Key")
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		keyHash := HashKey(apiKey)
		key, err := repo.GetByHash(c.Request.Context(), keyHash)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		// Set brand context for downstream handlers
		c.Set(contextBrandKey, key.Brand)
		c.Set(contextKeyIDKey, key.ID)
		c.Next()
	}
}
