package location

import (
	"context"

	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
)

// Repository defines the interface for location persistence.
type Repository interface {
	// List returns every location in stable insertion order.
	List(ctx context.Context) ([]Location, error)

	// GetByID retrieves a location or apperror.NotFound.
	GetByID(ctx context.Context, locationID id.ID) (Location, error)

	// SearchByName returns locations whose name contains the query,
	// case-insensitively.
	SearchByName(ctx context.Context, query string) ([]Location, error)

	// LockForUpdate takes a row lock on the location inside the current
	// transaction; apperror.NotFound when absent.
	LockForUpdate(ctx context.Context, locationID id.ID) error
}

// CardLister returns the medication cards stocked at a location.
// Implemented by the stock store.
type CardLister interface {
	ListCardsByLocation(ctx context.Context, locationID id.ID) ([]medication.Card, error)
}
