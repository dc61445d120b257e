package courses

import (
	"github.com/gin-gonic/gin"

	"github.com/devtrailhq/devtrail/internal/features/auth"
)

// RegisterRoutes registers both the top-level course routes and the
// bootcamp-scoped ones.
func RegisterRoutes(router *gin.RouterGroup, repo *Repository, protect gin.HandlerFunc, bootcamps BootcampSource) {
	handler := NewHandler(repo, bootcamps)

	publisherOrAdmin := auth.Authorize(auth.RolePublisher, auth.RoleAdmin)

	courses := router.Group("/courses")
	{
		courses.GET("", handler.GetCourses)
		courses.GET("/:id", handler.GetCourse)
		courses.PUT("/:id", protect, publisherOrAdmin, handler.UpdateCourse)
		courses.PATCH("/:id", protect, publisherOrAdmin, handler.DeleteCourse)
	}

	scoped := router.Group("/bootcamps/:id/courses")
	{
		scoped.GET("", handler.GetBootcampCourses)
		scoped.POST("", protect, publisherOrAdmin, handler.CreateCourse)
	}
}
