package handlers

import (
	"github.com/gin-gonic/gin"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/auth"
	"meditrack/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles login and employee registration.
type AuthHandler struct {
	base    *BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{base: base, service: service}
}

// Login authenticates a user and issues an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromSession(session))
}

// RegisterEmployee creates an employee account and mails the generated
// password. Admin only.
// POST /api/v1/admin/employees
func (h *AuthHandler) RegisterEmployee(c *gin.Context) {
	var req dto.RegisterEmployeeRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	locationID, err := id.Parse(req.LocationID)
	if err != nil {
		h.base.Error(c, apperror.NewValidation("invalid locationId").WithDetail("locationId", req.LocationID))
		return
	}

	user, err := h.service.RegisterEmployee(c.Request.Context(), auth.RegisterEmployeeInput{
		FullName:   req.FullName,
		Email:      req.Email,
		CPF:        req.CPF,
		LocationID: locationID,
	})
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.Created(c, dto.FromUser(user))
}
