package bootcamps

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrailhq/devtrail/internal/features/auth"
	"github.com/devtrailhq/devtrail/internal/pkg/geocoder"
	"github.com/devtrailhq/devtrail/internal/pkg/uploads"
)

// RegisterRoutes registers the bootcamp routes. The repository is
// returned so the courses and reviews features can resolve parents.
func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, protect gin.HandlerFunc, geo *geocoder.Service, up *uploads.Service, courses CourseLister, cascaders ...Cascader) *Repository {
	repo := NewRepository(db)
	handler := NewHandler(repo, geo, up, courses, cascaders...)

	publisherOrAdmin := auth.Authorize(auth.RolePublisher, auth.RoleAdmin)

	bootcamps := router.Group("/bootcamps")
	{
		bootcamps.GET("", handler.GetBootcamps)
		bootcamps.POST("", protect, publisherOrAdmin, handler.CreateBootcamp)
		bootcamps.GET("/radius/:zipcode/:distance", handler.GetBootcampsInRadius)
		bootcamps.GET("/radius/:zipcode/:distance/:units", handler.GetBootcampsInRadius)
		bootcamps.GET("/:id", handler.GetBootcamp)
		bootcamps.PUT("/:id", protect, publisherOrAdmin, handler.UpdateBootcamp)
		bootcamps.PATCH("/:id", protect, publisherOrAdmin, handler.DeleteBootcamp)
		bootcamps.POST("/:id/upload", protect, publisherOrAdmin, handler.UploadPhoto)
	}

	return repo
}
