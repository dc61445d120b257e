package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrailhq/devtrail/internal/config"
	"github.com/devtrailhq/devtrail/internal/features/auth"
	"github.com/devtrailhq/devtrail/internal/features/bootcamps"
	"github.com/devtrailhq/devtrail/internal/features/courses"
	"github.com/devtrailhq/devtrail/internal/features/reviews"
	"github.com/devtrailhq/devtrail/internal/features/users"
	"github.com/devtrailhq/devtrail/internal/pkg/geocoder"
	"github.com/devtrailhq/devtrail/internal/pkg/uploads"
)

// courseParentAdapter adapts bootcamps.Repository to courses.BootcampSource
type courseParentAdapter struct {
	repo *bootcamps.Repository
}

func (a *courseParentAdapter) GetParent(ctx context.Context, id string) (*courses.ParentBootcamp, error) {
	b, err := a.repo.FindByID(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	return &courses.ParentBootcamp{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		User:        b.User,
	}, nil
}

func (a *courseParentAdapter) GetParents(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*courses.ParentBootcamp, error) {
	list, err := a.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]*courses.ParentBootcamp, len(list))
	for i := range list {
		b := &list[i]
		out[b.ID] = &courses.ParentBootcamp{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			User:        b.User,
		}
	}
	return out, nil
}

// reviewParentAdapter adapts bootcamps.Repository to reviews.BootcampSource
type reviewParentAdapter struct {
	repo *bootcamps.Repository
}

func (a *reviewParentAdapter) GetParent(ctx context.Context, id string) (*reviews.ParentBootcamp, error) {
	b, err := a.repo.FindByID(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	return &reviews.ParentBootcamp{ID: b.ID, Name: b.Name, Description: b.Description}, nil
}

func (a *reviewParentAdapter) GetParents(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*reviews.ParentBootcamp, error) {
	list, err := a.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]*reviews.ParentBootcamp, len(list))
	for i := range list {
		b := &list[i]
		out[b.ID] = &reviews.ParentBootcamp{ID: b.ID, Name: b.Name, Description: b.Description}
	}
	return out, nil
}

// SetupRoutes wires every feature under /api/v1. The courses and reviews
// repositories double as the bootcamp delete cascade and as the inline
// course lister on bootcamp pages.
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, geo *geocoder.Service, up *uploads.Service, mail auth.Sender) {
	api := router.Group("/api/v1")

	coursesRepo := courses.NewRepository(db)
	reviewsRepo := reviews.NewRepository(db)

	authRepo, protect := auth.RegisterRoutes(api, db, cfg, mail)

	bootcampsRepo := bootcamps.RegisterRoutes(api, db, protect, geo, up, coursesRepo, coursesRepo, reviewsRepo)

	courses.RegisterRoutes(api, coursesRepo, protect, &courseParentAdapter{repo: bootcampsRepo})
	reviews.RegisterRoutes(api, reviewsRepo, protect, &reviewParentAdapter{repo: bootcampsRepo})
	users.RegisterRoutes(api, authRepo, protect)
}
