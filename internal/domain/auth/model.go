// Package auth provides the thin authentication collaborator: login with
// bcrypt-checked credentials, HS256 token issuance, and admin-driven
// employee registration. Core operations never reach into this package;
// the HTTP layer passes acting-user ids explicitly.
package auth

import (
	"time"

	"meditrack/internal/core/id"
)

// User is an account: an admin or an employee assigned to a location.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	CPF          string    `db:"cpf" json:"cpf"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	LocationID   *id.ID    `db:"location_id" json:"locationId,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// RegisterEmployeeInput is the admin-supplied employee registration payload.
type RegisterEmployeeInput struct {
	FullName   string
	Email      string
	CPF        string
	LocationID id.ID
}
