package bootcamps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrailhq/devtrail/internal/features/auth"
	"github.com/devtrailhq/devtrail/internal/pkg/geocoder"
	"github.com/devtrailhq/devtrail/internal/pkg/logger"
	"github.com/devtrailhq/devtrail/internal/pkg/pagination"
	"github.com/devtrailhq/devtrail/internal/pkg/query"
	"github.com/devtrailhq/devtrail/internal/pkg/response"
	"github.com/devtrailhq/devtrail/internal/pkg/uploads"
)

// Earth's radius per distance unit, for converting a linear search
// distance into an angular one.
const (
	EarthRadiusKM = 6378
	EarthRadiusMI = 3963
)

// filterFields is the allow-list of bootcamp fields a client may filter
// on. Unknown fields are dropped by the translator.
var filterFields = []query.Field{
	{Name: "name", String: true},
	{Name: "slug", String: true},
	{Name: "careers", String: true},
	{Name: "housing"},
	{Name: "jobAssistance"},
	{Name: "jobGuarantee"},
	{Name: "acceptGi"},
	{Name: "averageCost"},
	{Name: "averageRating"},
	{Name: "location.city", String: true},
	{Name: "location.state", String: true},
	{Name: "location.country", String: true},
}

// Cascader marks dependent documents deleted when their bootcamp goes.
type Cascader interface {
	CascadeDeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) error
}

// CourseLister resolves the courses shown inline on bootcamp listings.
type CourseLister interface {
	ListByBootcamps(ctx context.Context, bootcampIDs []primitive.ObjectID) (map[primitive.ObjectID]interface{}, error)
}

type Handler struct {
	repo      *Repository
	geo       *geocoder.Service
	uploads   *uploads.Service
	courses   CourseLister
	cascaders []Cascader
}

func NewHandler(repo *Repository, geo *geocoder.Service, up *uploads.Service, courses CourseLister, cascaders ...Cascader) *Handler {
	return &Handler{repo: repo, geo: geo, uploads: up, courses: courses, cascaders: cascaders}
}

// GetBootcamps godoc
// @Summary List bootcamps
// @Description Filterable, sortable, paginated bootcamp listing
// @Tags bootcamps
// @Produce json
// @Param select query string false "Comma-separated projection fields"
// @Param sort query string false "Comma-separated sort fields, - prefix for descending"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /bootcamps [get]
func (h *Handler) GetBootcamps(c *gin.Context) {
	d := query.Translate(c.Request.URL.Query(), filterFields)

	bootcamps, total, err := h.repo.List(c.Request.Context(), d)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.attachCourses(c.Request.Context(), bootcamps)

	response.Advanced(c, len(bootcamps), pagination.Build(d.Page, d.Limit, total), bootcamps)
}

// GetBootcamp godoc
// @Summary Get a single bootcamp
// @Tags bootcamps
// @Produce json
// @Param id path string true "Bootcamp id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /bootcamps/{id} [get]
func (h *Handler) GetBootcamp(c *gin.Context) {
	id := c.Param("id")

	bootcamp, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if bootcamp == nil {
		response.NotFound(c, fmt.Sprintf("Bootcamp not found with id of %s", id))
		return
	}

	single := []Bootcamp{*bootcamp}
	h.attachCourses(c.Request.Context(), single)

	response.Success(c, single[0])
}

// CreateBootcamp godoc
// @Summary Create a bootcamp
// @Description Publishers may create a single bootcamp; admins any number
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Bootcamp data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /bootcamps [post]
func (h *Handler) CreateBootcamp(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}
	if err := ValidateCreate(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// One bootcamp per publisher; only admins publish more.
	if !user.IsAdmin() {
		count, err := h.repo.CountByOwner(c.Request.Context(), user.ID)
		if err != nil {
			response.FromError(c, err)
			return
		}
		if count > 0 {
			response.BadRequest(c, fmt.Sprintf("The user with ID %s has already published a bootcamp", user.ID.Hex()))
			return
		}
	}

	location, err := h.geo.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		response.FromError(c, err)
		return
	}

	bootcamp := &Bootcamp{
		Name:          req.Name,
		Slug:          Slugify(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Location:      *location,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGI:      req.AcceptGI,
		User:          user.ID,
	}

	if err := h.repo.Create(c.Request.Context(), bootcamp); err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, bootcamp)
}

// UpdateBootcamp godoc
// @Summary Update a bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorEnvelope
// @Router /bootcamps/{id} [put]
func (h *Handler) UpdateBootcamp(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id := c.Param("id")

	bootcamp, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if bootcamp == nil {
		response.NotFound(c, fmt.Sprintf("Bootcamp not found with id of %s", id))
		return
	}

	if !user.CanModify(bootcamp.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to update this bootcamp", user.ID.Hex()))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	updates, err := h.buildUpdates(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if len(updates) > 0 {
		if err := h.repo.UpdateFields(c.Request.Context(), bootcamp.ID, updates); err != nil {
			response.FromError(c, err)
			return
		}
	}

	updated, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, updated)
}

// DeleteBootcamp godoc
// @Summary Soft-delete a bootcamp and its courses and reviews
// @Tags bootcamps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorEnvelope
// @Router /bootcamps/{id} [patch]
func (h *Handler) DeleteBootcamp(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id := c.Param("id")

	bootcamp, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if bootcamp == nil {
		response.NotFound(c, fmt.Sprintf("Bootcamp not found with id of %s", id))
		return
	}

	if !user.CanModify(bootcamp.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to delete this bootcamp", user.ID.Hex()))
		return
	}

	if err := h.repo.SoftDelete(c.Request.Context(), bootcamp.ID); err != nil {
		response.FromError(c, err)
		return
	}

	// Dependent courses and reviews follow the bootcamp. The bootcamp is
	// already gone from reads at this point; a cascade failure surfaces so
	// the client can retry the (idempotent) delete.
	for _, cascader := range h.cascaders {
		if err := cascader.CascadeDeleteByBootcamp(c.Request.Context(), bootcamp.ID); err != nil {
			response.FromError(c, err)
			return
		}
	}

	response.Success(c, gin.H{})
}

// GetBootcampsInRadius godoc
// @Summary Find bootcamps within a distance of a postal code
// @Tags bootcamps
// @Produce json
// @Param zipcode path string true "Postal code to center on"
// @Param distance path number true "Search distance"
// @Param units path string true "mi or km"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /bootcamps/radius/{zipcode}/{distance}/{units} [get]
func (h *Handler) GetBootcampsInRadius(c *gin.Context) {
	zipcode := c.Param("zipcode")
	rawDistance := c.Param("distance")
	units := c.Param("units")
	if units == "" {
		units = "mi"
	}

	distance, err := strconv.ParseFloat(rawDistance, 64)
	if err != nil || distance <= 0 {
		response.BadRequest(c, "Please provide a valid distance")
		return
	}

	var earthRadius float64
	switch units {
	case "km":
		earthRadius = EarthRadiusKM
	case "mi":
		earthRadius = EarthRadiusMI
	default:
		response.BadRequest(c, "Units must be either mi or km")
		return
	}

	location, err := h.geo.Geocode(c.Request.Context(), zipcode)
	if err != nil {
		response.FromError(c, err)
		return
	}

	radians := distance / earthRadius
	lng, lat := location.Coordinates[0], location.Coordinates[1]

	bootcamps, err := h.repo.FindWithinRadius(c.Request.Context(), lng, lat, radians)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if len(bootcamps) == 0 {
		response.NotFound(c, fmt.Sprintf(
			"No bootcamps were found within the provided combination of %s zipcode and %s %s radius. Try expanding your search.",
			zipcode, rawDistance, units))
		return
	}

	response.List(c, len(bootcamps), bootcamps)
}

// UploadPhoto godoc
// @Summary Upload a bootcamp photo
// @Tags bootcamps
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp id"
// @Param file formData file true "Image file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /bootcamps/{id}/upload [post]
func (h *Handler) UploadPhoto(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	id := c.Param("id")

	bootcamp, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if bootcamp == nil {
		response.NotFound(c, fmt.Sprintf("Bootcamp not found with id of %s", id))
		return
	}

	if !user.CanModify(bootcamp.User) {
		response.Forbidden(c, fmt.Sprintf("User %s is not authorized to update this bootcamp", user.ID.Hex()))
		return
	}

	if h.uploads == nil {
		response.InternalServerError(c, "Image uploads are not configured")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Please upload a file")
		return
	}
	if err := h.uploads.ValidateImage(header); err != nil {
		response.FromError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.uploads.UploadImage(c.Request.Context(), file)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.repo.UpdateFields(c.Request.Context(), bootcamp.ID, bson.M{"photo": result.URL}); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"photo": result.URL})
}

// attachCourses populates the inline course list on each bootcamp.
// Best effort: a lookup failure leaves the listing without courses.
func (h *Handler) attachCourses(ctx context.Context, bootcamps []Bootcamp) {
	if h.courses == nil || len(bootcamps) == 0 {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(bootcamps))
	for i := range bootcamps {
		ids = append(ids, bootcamps[i].ID)
	}

	byBootcamp, err := h.courses.ListByBootcamps(ctx, ids)
	if err != nil {
		logger.L.Warn().Err(err).Msg("failed to load courses for bootcamp listing")
		return
	}

	for i := range bootcamps {
		if list, ok := byBootcamp[bootcamps[i].ID]; ok {
			bootcamps[i].Courses = list
		}
	}
}

// buildUpdates validates the changed fields and produces the update
// document. A changed address is re-geocoded into a fresh location.
func (h *Handler) buildUpdates(ctx context.Context, req *UpdateRequest) (bson.M, error) {
	updates := bson.M{}

	if req.Name != nil {
		if err := ValidateName(*req.Name); err != nil {
			return nil, wrapValidation(err)
		}
		updates["name"] = *req.Name
		updates["slug"] = Slugify(*req.Name)
	}
	if req.Description != nil {
		if err := ValidateDescription(*req.Description); err != nil {
			return nil, wrapValidation(err)
		}
		updates["description"] = *req.Description
	}
	if req.Website != nil {
		if err := ValidateWebsite(*req.Website); err != nil {
			return nil, wrapValidation(err)
		}
		updates["website"] = *req.Website
	}
	if req.Phone != nil {
		if err := ValidatePhone(*req.Phone); err != nil {
			return nil, wrapValidation(err)
		}
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		if err := ValidateEmail(*req.Email); err != nil {
			return nil, wrapValidation(err)
		}
		updates["email"] = *req.Email
	}
	if req.Careers != nil {
		if err := ValidateCareers(*req.Careers); err != nil {
			return nil, wrapValidation(err)
		}
		updates["careers"] = *req.Careers
	}
	if req.Address != nil {
		location, err := h.geo.Geocode(ctx, *req.Address)
		if err != nil {
			return nil, err
		}
		updates["location"] = location
	}
	if req.Housing != nil {
		updates["housing"] = *req.Housing
	}
	if req.JobAssistance != nil {
		updates["jobAssistance"] = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		updates["jobGuarantee"] = *req.JobGuarantee
	}
	if req.AcceptGI != nil {
		updates["acceptGi"] = *req.AcceptGI
	}

	return updates, nil
}
