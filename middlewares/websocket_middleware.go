package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/utils"
)

// WebSocketAuthMiddleware authenticates board sockets, which pass the
// token as a query parameter because browsers cannot set headers on them.
func WebSocketAuthMiddleware(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" || !authenticate(c, tm, token) {
			c.AbortWithStatus(401)
			return
		}
		c.Next()
	}
}
