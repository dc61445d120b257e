package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devtrailhq/devtrail/internal/config"
	"github.com/devtrailhq/devtrail/internal/pkg/response"
	"github.com/devtrailhq/devtrail/internal/pkg/token"
)

const userContextKey = "user"

// Protect creates a Gin middleware that requires a valid bearer token.
// The token travels in the Authorization header or in the token cookie set
// at login. The resolved user document is stored on the request context.
func Protect(repo *Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie("token"); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Unauthorized(c, "Not authorized to access this route")
			c.Abort()
			return
		}

		claims, err := token.Validate(tokenString, cfg.JWTSecret)
		if err != nil {
			response.Unauthorized(c, "Not authorized to access this route")
			c.Abort()
			return
		}

		// The token carries the role, but the account is resolved fresh so
		// revoked or deleted users cannot keep riding an old token.
		user, err := repo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil || !user.Active {
			response.Unauthorized(c, "Not authorized to access this route")
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser stores the principal on the request context. Protect
// installs it after resolving the account.
func SetCurrentUser(c *gin.Context, user *User) {
	c.Set(userContextKey, user)
	c.Set("userID", user.ID.Hex())
}

// Authorize creates a middleware that admits only the given roles. It must
// run after Protect.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "Not authorized to access this route")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, fmt.Sprintf("User role %s is not authorized to access this route", user.Role))
		c.Abort()
	}
}

// CurrentUser returns the authenticated user stored by Protect.
func CurrentUser(c *gin.Context) (*User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*User)
	return user, ok
}
