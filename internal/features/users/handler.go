// Package users is the admin-only account management surface. It reuses
// the auth repository rather than opening a second handle on the users
// collection.
package users

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/devtrailhq/devtrail/internal/features/auth"
	"github.com/devtrailhq/devtrail/internal/pkg/pagination"
	"github.com/devtrailhq/devtrail/internal/pkg/query"
	"github.com/devtrailhq/devtrail/internal/pkg/response"
)

var filterFields = []query.Field{
	{Name: "name", String: true},
	{Name: "email", String: true},
	{Name: "role", String: true},
	{Name: "active"},
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// UpdateUserRequest carries a partial update; empty or nil fields are
// left untouched.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
	Active   *bool  `json:"active"`
}

type Handler struct {
	repo *auth.Repository
}

func NewHandler(repo *auth.Repository) *Handler {
	return &Handler{repo: repo}
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	d := query.Translate(c.Request.URL.Query(), filterFields)

	users, total, err := h.repo.List(c.Request.Context(), d)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Advanced(c, len(users), pagination.Build(d.Page, d.Limit, total), users)
}

// GetUser godoc
// @Summary Get a single user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id := c.Param("id")

	user, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if user == nil {
		response.NotFound(c, fmt.Sprintf("User not found with id of %s", id))
		return
	}

	response.Success(c, user)
}

// CreateUser godoc
// @Summary Create a user with any role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	if err := auth.ValidateName(req.Name); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := auth.ValidateEmail(req.Email); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := auth.ValidateRole(req.Role); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}

	user := &auth.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	user, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if user == nil {
		response.NotFound(c, fmt.Sprintf("User not found with id of %s", id))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	updates := bson.M{}
	if req.Name != "" {
		if err := auth.ValidateName(req.Name); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		updates["name"] = req.Name
	}
	if req.Email != "" {
		if err := auth.ValidateEmail(req.Email); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		updates["email"] = req.Email
	}
	if req.Role != "" {
		if err := auth.ValidateRole(req.Role); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		updates["role"] = req.Role
	}
	if req.Password != "" {
		if err := auth.ValidatePassword(req.Password); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			response.InternalServerError(c, "Failed to process password")
			return
		}
		updates["password"] = string(hashed)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.repo.UpdateFields(c.Request.Context(), user.ID, updates); err != nil {
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

// DeleteUser godoc
// @Summary Delete a user
// @Description Accounts are removed outright, not soft-deleted
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User id"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	user, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if user == nil {
		response.NotFound(c, fmt.Sprintf("User not found with id of %s", id))
		return
	}

	if err := h.repo.Delete(c.Request.Context(), user.ID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{})
}
