package medication

import (
	"context"

	"meditrack/internal/core/id"
)

// Repository defines the interface for catalog persistence.
type Repository interface {
	// CreateBulk inserts every record; all or nothing.
	CreateBulk(ctx context.Context, meds []Medication) error

	// GetByID retrieves a medication or apperror.NotFound.
	GetByID(ctx context.Context, medicationID id.ID) (Medication, error)

	// FindByCode resolves a supplier code. Codes are not unique: the most
	// recently ingested match wins. The bool reports whether any match exists.
	FindByCode(ctx context.Context, code int) (Medication, bool, error)

	// SearchByName returns summaries whose name contains the query,
	// case-insensitively.
	SearchByName(ctx context.Context, query string) ([]Summary, error)

	// Exists checks whether a medication id is present.
	Exists(ctx context.Context, medicationID id.ID) (bool, error)
}

// StockReader provides the joined stock views the search service serves.
// Implemented by the stock store; defined here so the catalog side never
// depends on the reconciliation packages.
type StockReader interface {
	// ListCardsByLocation returns the card projection for one location's stock.
	ListCardsByLocation(ctx context.Context, locationID id.ID) ([]Card, error)

	// ListAvailability returns every location stocking a medication.
	ListAvailability(ctx context.Context, medicationID id.ID) ([]Availability, error)
}

// FavoriteStore persists the (user, medication) favorite join.
type FavoriteStore interface {
	// Add inserts a favorite. The insert is idempotent: duplicate calls for
	// the same pair succeed and leave exactly one row.
	Add(ctx context.Context, userID, medicationID id.ID) error

	// ListCardsByUser returns card projections for a user's favorites.
	// Quantity and expiry are attached only where stock data exists.
	ListCardsByUser(ctx context.Context, userID id.ID) ([]Card, error)
}
