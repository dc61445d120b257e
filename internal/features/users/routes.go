package users

import (
	"github.com/gin-gonic/gin"

	"github.com/devtrailhq/devtrail/internal/features/auth"
)

// RegisterRoutes registers the admin-only user management routes.
func RegisterRoutes(router *gin.RouterGroup, repo *auth.Repository, protect gin.HandlerFunc) {
	handler := NewHandler(repo)

	users := router.Group("/users")
	users.Use(protect, auth.Authorize(auth.RoleAdmin))
	{
		users.GET("", handler.GetUsers)
		users.POST("", handler.CreateUser)
		users.GET("/:id", handler.GetUser)
		users.PUT("/:id", handler.UpdateUser)
		users.DELETE("/:id", handler.DeleteUser)
	}
}
