package reviews

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrailhq/devtrail/internal/features/auth"
	"github.com/devtrailhq/devtrail/internal/pkg/logger"
	"github.com/devtrailhq/devtrail/internal/pkg/pagination"
	"github.com/devtrailhq/devtrail/internal/pkg/query"
	"github.com/devtrailhq/devtrail/internal/pkg/response"
)

var filterFields = []query.Field{
	{Name: "title", String: true},
	{Name: "rating"},
}

// ParentBootcamp is the slice of a bootcamp the reviews feature needs.
type ParentBootcamp struct {
	ID          primitive.ObjectID
	Name        string
	Description string
}

// BootcampSource resolves parent bootcamps without importing the
// bootcamps feature. Absent parents return (nil, nil).
type BootcampSource interface {
	GetParent(ctx context.Context, id string) (*ParentBootcamp, error)
	GetParents(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*ParentBootcamp, error)
}

type Handler struct {
	repo      *Repository
	bootcamps BootcampSource
}

func NewHandler(repo *Repository, bootcamps BootcampSource) *Handler {
	return &Handler{repo: repo, bootcamps: bootcamps}
}

// GetReviews godoc
// @Summary List all reviews
// @Tags reviews
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reviews [get]
func (h *Handler) GetReviews(c *gin.Context) {
	d := query.Translate(c.Request.URL.Query(), filterFields)

	reviews, total, err := h.repo.List(c.Request.Context(), d)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.attachParents(c.Request.Context(), reviews)

	response.Advanced(c, len(reviews), pagination.Build(d.Page, d.Limit, total), reviews)
}

// attachParents resolves the bootcamp display join for a page of reviews.
// Best effort: a lookup failure leaves the listing without the join.
func (h *Handler) attachParents(ctx context.Context, reviews []Review) {
	if len(reviews) == 0 {
		return
	}

	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for i := range reviews {
		if !seen[reviews[i].BootcampID] {
			seen[reviews[i].BootcampID] = true
			ids = append(ids, reviews[i].BootcampID)
		}
	}

	parents, err := h.bootcamps.GetParents(ctx, ids)
	if err != nil {
		logger.L.Warn().Err(err).Msg("failed to load bootcamps for review listing")
		return
	}

	for i := range reviews {
		if parent, ok := parents[reviews[i].BootcampID]; ok {
			reviews[i].Bootcamp = &BootcampRef{ID: parent.ID, Name: parent.Name, Description: parent.Description}
		}
	}
}

// GetBootcampReviews godoc
// @Summary List the reviews of one bootcamp
// @Tags reviews
// @Produce json
// @Param id path string true "Bootcamp id"
// @Success 200 {object} response.Envelope
// @Router /bootcamps/{id}/reviews [get]
func (h *Handler) GetBootcampReviews(c *gin.Context) {
	bootcampID := c.Param("id")

	oid, err := primitive.ObjectIDFromHex(bootcampID)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid bootcamp id of %s", bootcampID))
		return
	}

	reviews, err := h.repo.ListByBootcamp(c.Request.Context(), oid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, len(reviews), reviews)
}

// GetReview godoc
// @Summary Get a single review
// @Tags reviews
// @Produce json
// @Param id path string true "Review id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	id := c.Param("id")

	review, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if review == nil {
		response.NotFound(c, fmt.Sprintf("No review found with the id of %s", id))
		return
	}

	// Display join, best effort.
	if parent, err := h.bootcamps.GetParent(c.Request.Context(), review.BootcampID.Hex()); err == nil && parent != nil {
		review.Bootcamp = &BootcampRef{ID: parent.ID, Name: parent.Name, Description: parent.Description}
	}

	response.Success(c, review)
}

// CreateReview godoc
// @Summary Add a review to a bootcamp
// @Description One review per user per bootcamp
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp id"
// @Param request body CreateRequest true "Review data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /bootcamps/{id}/reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	bootcampID := c.Param("id")

	parent, err := h.bootcamps.GetParent(c.Request.Context(), bootcampID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if parent == nil {
		response.NotFound(c, fmt.Sprintf("No bootcamp with the id of %s", bootcampID))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}
	if err := ValidateCreate(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review := &Review{
		Title:      req.Title,
		Text:       req.Text,
		Rating:     req.Rating,
		BootcampID: parent.ID,
		User:       user.ID,
	}

	// A duplicate (bootcamp, user) pair trips the unique index and maps
	// to a 400 in the error translator.
	if err := h.repo.Create(c.Request.Context(), review); err != nil {
		response.FromError(c, err)
		return
	}

	h.recalculate(c.Request.Context(), parent.ID)

	response.Created(c, review)
}

// UpdateReview godoc
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorEnvelope
// @Router /reviews/{id} [put]
func (h *Handler) UpdateReview(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id := c.Param("id")

	review, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if review == nil {
		response.NotFound(c, fmt.Sprintf("No review found with the id of %s", id))
		return
	}

	if !user.CanModify(review.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to update review %s", user.ID.Hex(), review.ID.Hex()))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	updates, err := buildUpdates(&req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if len(updates) > 0 {
		if err := h.repo.UpdateFields(c.Request.Context(), review.ID, updates); err != nil {
			response.FromError(c, err)
			return
		}
		h.recalculate(c.Request.Context(), review.BootcampID)
	}

	updated, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, updated)
}

// DeleteReview godoc
// @Summary Soft-delete a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorEnvelope
// @Router /reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id := c.Param("id")

	review, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if review == nil {
		response.NotFound(c, fmt.Sprintf("No review found with the id of %s", id))
		return
	}

	if !user.CanModify(review.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to delete review %s", user.ID.Hex(), review.ID.Hex()))
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), review.ID); err != nil {
		response.FromError(c, err)
		return
	}

	h.recalculate(c.Request.Context(), review.BootcampID)

	response.Success(c, gin.H{})
}

// recalculate refreshes the derived averageRating after a review write.
// Logs rather than failing: the next review write corrects the aggregate.
func (h *Handler) recalculate(ctx context.Context, bootcampID primitive.ObjectID) {
	if err := h.repo.RecalculateAverageRating(ctx, bootcampID); err != nil {
		logger.L.Error().Err(err).Str("bootcampId", bootcampID.Hex()).Msg("failed to recalculate average rating")
	}
}

func buildUpdates(req *UpdateRequest) (bson.M, error) {
	updates := bson.M{}

	if req.Title != nil {
		if err := ValidateTitle(*req.Title); err != nil {
			return nil, wrapValidation(err)
		}
		updates["title"] = *req.Title
	}
	if req.Text != nil {
		if err := ValidateText(*req.Text); err != nil {
			return nil, wrapValidation(err)
		}
		updates["text"] = *req.Text
	}
	if req.Rating != nil {
		if err := ValidateRating(*req.Rating); err != nil {
			return nil, wrapValidation(err)
		}
		updates["rating"] = *req.Rating
	}

	return updates, nil
}
