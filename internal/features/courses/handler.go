package courses

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

// weeks is stored as a string, so its values must not be coerced.
var filterFields = []query.Field{
	{Name: "title", String: true},
	{Name: "weeks", String: true},
	{Name: "tuition"},
	{Name: "minimumSkill", String: true},
	{Name: "scholarshipAvailable"},
}

// ParentBootcamp is the slice of a bootcamp the courses feature needs:
// existence, display fields and the owner for the authorization check.
type ParentBootcamp struct {
	ID          primitive.ObjectID
	Name        string
	Description string
	User        primitive.ObjectID
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

// GetCourses godoc
// @Summary List all courses
// @Tags courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *Handler) GetCourses(c *gin.Context) {
	d := query.Translate(c.Request.URL.Query(), filterFields)

	courses, total, err := h.repo.List(c.Request.Context(), d)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.attachParents(c.Request.Context(), courses)

	response.Advanced(c, len(courses), pagination.Build(d.Page, d.Limit, total), courses)
}

// attachParents resolves the bootcamp display join for a page of courses.
// Best effort: a lookup failure leaves the listing without the join.
func (h *Handler) attachParents(ctx context.Context, courses []Course) {
	if len(courses) == 0 {
		return
	}

	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0, len(courses))
	for i := range courses {
		if !seen[courses[i].BootcampID] {
			seen[courses[i].BootcampID] = true
			ids = append(ids, courses[i].BootcampID)
		}
	}

	parents, err := h.bootcamps.GetParents(ctx, ids)
	if err != nil {
		logger.L.Warn().Err(err).Msg("failed to load bootcamps for course listing")
		return
	}

	for i := range courses {
		if parent, ok := parents[courses[i].BootcampID]; ok {
			courses[i].Bootcamp = &BootcampRef{ID: parent.ID, Name: parent.Name, Description: parent.Description}
		}
	}
}

// GetBootcampCourses godoc
// @Summary List the courses of one bootcamp
// @Description Parent-scoped listing, unfiltered and unpaginated
// @Tags courses
// @Produce json
// @Param id path string true "Bootcamp id"
// @Success 200 {object} response.Envelope
// @Router /bootcamps/{id}/courses [get]
func (h *Handler) GetBootcampCourses(c *gin.Context) {
	bootcampID := c.Param("id")

	oid, err := primitive.ObjectIDFromHex(bootcampID)
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid bootcamp id of %s", bootcampID))
		return
	}

	courses, err := h.repo.ListByBootcamp(c.Request.Context(), oid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, len(courses), courses)
}

// GetCourse godoc
// @Summary Get a single course with its bootcamp summary
// @Tags courses
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /courses/{id} [get]
func (h *Handler) GetCourse(c *gin.Context) {
	id := c.Param("id")

	course, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if course == nil {
		response.NotFound(c, fmt.Sprintf("No course with the id of %s", id))
		return
	}

	// Display join, best effort.
	if parent, err := h.bootcamps.GetParent(c.Request.Context(), course.BootcampID.Hex()); err == nil && parent != nil {
		course.Bootcamp = &BootcampRef{ID: parent.ID, Name: parent.Name, Description: parent.Description}
	}

	response.Success(c, course)
}

// CreateCourse godoc
// @Summary Add a course to a bootcamp
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp id"
// @Param request body CreateRequest true "Course data"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.ErrorEnvelope
// @Router /bootcamps/{id}/courses [post]
func (h *Handler) CreateCourse(c *gin.Context) {
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

	if !user.CanModify(parent.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to add a course to bootcamp %s", user.ID.Hex(), parent.ID.Hex()))
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

	course := &Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		BootcampID:           parent.ID,
		User:                 user.ID,
	}

	if err := h.repo.Create(c.Request.Context(), course); err != nil {
		response.FromError(c, err)
		return
	}

	h.recalculate(c.Request.Context(), parent.ID)

	response.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorEnvelope
// @Router /courses/{id} [put]
func (h *Handler) UpdateCourse(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id := c.Param("id")

	course, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if course == nil {
		response.NotFound(c, fmt.Sprintf("No course with the id of %s", id))
		return
	}

	if !user.CanModify(course.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to update course %s", user.ID.Hex(), course.ID.Hex()))
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
		if err := h.repo.UpdateFields(c.Request.Context(), course.ID, updates); err != nil {
			response.FromError(c, err)
			return
		}
		h.recalculate(c.Request.Context(), course.BootcampID)
	}

	updated, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, updated)
}

// DeleteCourse godoc
// @Summary Soft-delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorEnvelope
// @Router /courses/{id} [patch]
func (h *Handler) DeleteCourse(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id := c.Param("id")

	course, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if course == nil {
		response.NotFound(c, fmt.Sprintf("No course with the id of %s", id))
		return
	}

	if !user.CanModify(course.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to delete course %s", user.ID.Hex(), course.ID.Hex()))
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), course.ID); err != nil {
		response.FromError(c, err)
		return
	}

	h.recalculate(c.Request.Context(), course.BootcampID)

	response.Success(c, gin.H{})
}

// recalculate refreshes the derived averageCost after a course write. The
// two writes are independent; a failed recompute is corrected by the next
// course write, so it logs rather than failing the request.
func (h *Handler) recalculate(ctx context.Context, bootcampID primitive.ObjectID) {
	if err := h.repo.RecalculateAverageCost(ctx, bootcampID); err != nil {
		logger.L.Error().Err(err).Str("bootcampId", bootcampID.Hex()).Msg("failed to recalculate average cost")
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
	if req.Description != nil {
		if err := ValidateDescription(*req.Description); err != nil {
			return nil, wrapValidation(err)
		}
		updates["description"] = *req.Description
	}
	if req.Weeks != nil {
		if err := ValidateWeeks(*req.Weeks); err != nil {
			return nil, wrapValidation(err)
		}
		updates["weeks"] = *req.Weeks
	}
	if req.Tuition != nil {
		if err := ValidateTuition(*req.Tuition); err != nil {
			return nil, wrapValidation(err)
		}
		updates["tuition"] = *req.Tuition
	}
	if req.MinimumSkill != nil {
		if err := ValidateMinimumSkill(*req.MinimumSkill); err != nil {
			return nil, wrapValidation(err)
		}
		updates["minimumSkill"] = *req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		updates["scholarshipAvailable"] = *req.ScholarshipAvailable
	}

	return updates, nil
}
