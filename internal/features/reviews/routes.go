package reviews

import (
	"github.com/gin-gonic/gin"

	"github.com/devtrailhq/devtrail/internal/features/auth"
)

// RegisterRoutes registers both the top-level review routes and the
// bootcamp-scoped ones.
func RegisterRoutes(router *gin.RouterGroup, repo *Repository, protect gin.HandlerFunc, bootcamps BootcampSource) {
	handler := NewHandler(repo, bootcamps)

	userOrAdmin := auth.Authorize(auth.RoleUser, auth.RoleAdmin)

	reviews := router.Group("/reviews")
	{
		reviews.GET("", handler.GetReviews)
		reviews.GET("/:id", handler.GetReview)
		reviews.PUT("/:id", protect, userOrAdmin, handler.UpdateReview)
		reviews.DELETE("/:id", protect, userOrAdmin, handler.DeleteReview)
	}

	scoped := router.Group("/bootcamps/:id/reviews")
	{
		scoped.GET("", handler.GetBootcampReviews)
		scoped.POST("", protect, userOrAdmin, handler.CreateReview)
	}
}
