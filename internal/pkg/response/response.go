package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrailhq/devtrail/internal/pkg/pagination"
	"github.com/devtrailhq/devtrail/pkg/apperror"
)

// Envelope is the uniform success payload returned by every endpoint.
type Envelope struct {
	Success    bool                   `json:"success"`
	Count      *int                   `json:"count,omitempty"`
	Pagination *pagination.Pagination `json:"pagination,omitempty"`
	Data       interface{}            `json:"data"`
}

// ErrorEnvelope is the uniform failure payload.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Success sends a 200 OK with a single document.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created sends a 201 Created with the new document.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// List sends a 200 OK with a result count and no pagination block. Used by
// parent-scoped listings that bypass the query translator.
func List(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Advanced sends a 200 OK with count and next/prev page descriptors.
func Advanced(c *gin.Context, count int, p *pagination.Pagination, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Pagination: p, Data: data})
}

// Error sends a failure envelope with an explicit status.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorEnvelope{Success: false, Error: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError is the centralized error translator. It maps apperror kinds and
// store-level failures to the envelope and status taxonomy.
func FromError(c *gin.Context, err error) {
	if mongo.IsDuplicateKeyError(err) {
		Error(c, http.StatusBadRequest, "A resource with that value already exists in the database")
		return
	}
	Error(c, apperror.Status(err), err.Error())
}
