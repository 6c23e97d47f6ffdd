package dto

import (
	"time"

	"meditrack/internal/domain/auth"
)

// LoginRequest for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse contains the public fields of a user account.
type UserResponse struct {
	ID         string  `json:"id"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	LocationID *string `json:"locationId,omitempty"`
}

// FromUser creates UserResponse from auth.User.
func FromUser(u auth.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID.String(),
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
	if u.LocationID != nil {
		locID := u.LocationID.String()
		resp.LocationID = &locID
	}
	return resp
}

// FromSession creates LoginResponse from auth.Session.
func FromSession(s auth.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      FromUser(s.User),
	}
}

// RegisterEmployeeRequest for the admin employee registration endpoint.
type RegisterEmployeeRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	CPF        string `json:"cpf" binding:"required"`
	LocationID string `json:"locationId" binding:"required,uuid"`
}
