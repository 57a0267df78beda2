package middleware

import (
	"strings"

	"accommodation/errors"
	"accommodation/response"
	"accommodation/services"
	"accommodation/services/logger"
	"accommodation/types"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware requires a bearer token and, when roles are given, one of those roles
func AuthMiddleware(tokens *services.TokenService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		who, err := tokens.IdentityFromToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(who.Role, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Set(identityKey, who)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and never rejects
func OptionalAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			if who, err := tokens.IdentityFromToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
				c.Set(identityKey, who)
			}
		}
		c.Next()
	}
}

// RoleMiddleware checks the role of an identity set by AuthMiddleware
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := Identity(c)
		if !ok {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		if !hasRole(who.Role, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Identity returns the caller stored by the auth middleware
func Identity(c *gin.Context) (types.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return types.Identity{}, false
	}
	who, ok := v.(types.Identity)
	return who, ok
}

// ErrorHandler renders the last error a handler attached with c.Error
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if appErr := errors.GetAppError(err); appErr == nil || response.StatusFor(appErr.Code) >= 500 {
			log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		response.FromError(c, err)
	}
}
