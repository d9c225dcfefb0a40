package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/models"
	"github.com/yeremiapane/paint-queue/utils"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxRole     = "role"
	ctxClaims   = "claims"
	ctxToken    = "token"
)

// AuthMiddleware requires a bearer token and puts the session's user and
// role on the context.
func AuthMiddleware(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if !authenticate(c, tm, tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token, please log in again"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tm *utils.TokenManager, tokenString string) bool {
	claims, err := tm.ParseToken(tokenString)
	if err != nil || claims == nil || claims.UserID == 0 {
		return false
	}
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxClaims, claims)
	c.Set(ctxToken, tokenString)
	return true
}

// GetRole returns the role of the authenticated session, or "" when the
// request did not pass through AuthMiddleware.
func GetRole(c *gin.Context) models.Role {
	v, ok := c.Get(ctxRole)
	if !ok {
		return ""
	}
	role, _ := v.(models.Role)
	return role
}

func GetUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

// GetSession returns the raw token and its claims.
func GetSession(c *gin.Context) (string, *utils.CustomClaims) {
	claims, _ := c.Get(ctxClaims)
	cc, _ := claims.(*utils.CustomClaims)
	return c.GetString(ctxToken), cc
}
