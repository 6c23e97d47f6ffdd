package auth

import (
	"context"

	"meditrack/internal/core/id"
)

// Repository defines the interface for user persistence.
type Repository interface {
	// GetByEmail retrieves a user or apperror.NotFound.
	GetByEmail(ctx context.Context, email string) (User, error)

	// ExistsByEmailOrCPF checks whether any user already holds either value.
	ExistsByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error)

	// Create inserts a new user.
	Create(ctx context.Context, user User) error

	// GetByID retrieves a user or apperror.NotFound.
	GetByID(ctx context.Context, userID id.ID) (User, error)
}

// LocationChecker validates that a location exists before an employee is
// assigned to it. Implemented by the location repository.
type LocationChecker interface {
	Exists(ctx context.Context, locationID id.ID) (bool, error)
}

// Mailer delivers account notifications. Delivery transport is an external
// collaborator; the default implementation only logs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
