// Package handlers provides HTTP request handlers.
package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"meditrack/internal/core/apperror"
	appctx "meditrack/internal/core/context"
	"meditrack/internal/core/id"
)

// maxUploadSize caps inventory file uploads at 20 MiB.
const maxUploadSize = 20 << 20

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// ParseIDParam parses a uuid path parameter.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+name).WithDetail(name, c.Param(name)))
		return id.Nil(), false
	}
	return parsed, true
}

// OpenUpload opens the uploaded file from a multipart form field.
// The caller must close the returned file.
func (h *BaseHandler) OpenUpload(c *gin.Context, field string) (multipart.File, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		h.Error(c, apperror.NewValidation("missing file upload").WithDetail("field", field))
		return nil, false
	}
	if header.Size > maxUploadSize {
		h.Error(c, apperror.NewValidation("file too large").WithDetail("max_bytes", maxUploadSize))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.Error(c, apperror.NewMalformedInput("cannot read uploaded file").WithCause(err))
		return nil, false
	}
	return file, true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// GetUserID extracts the authenticated user id from request context.
func (h *BaseHandler) GetUserID(c *gin.Context) (id.ID, bool) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return id.Nil(), false
	}
	userID, err := id.Parse(user.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid user identity"))
		return id.Nil(), false
	}
	return userID, true
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
