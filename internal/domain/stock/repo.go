package stock

import (
	"context"

	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
)

// Store persists stock entries.
type Store interface {
	// Upsert sets the absolute quantity for a (medication, location) pair,
	// creating the entry on first write.
	Upsert(ctx context.Context, entry Entry) error
}

// AuditTrail is the append-only store of upload events.
type AuditTrail interface {
	// Append writes one audit record. Fails with NotFound when the
	// referenced location or employee does not exist.
	Append(ctx context.Context, record AuditRecord) error

	// ListByLocation returns upload events for a location, newest first.
	ListByLocation(ctx context.Context, locationID id.ID) ([]AuditView, error)
}

// CatalogWriter is the slice of the catalog the reconciliation engine needs.
type CatalogWriter interface {
	// CreateBulk inserts every record; all or nothing.
	CreateBulk(ctx context.Context, meds []medication.Medication) error

	// FindByCode resolves a supplier code; the bool reports whether any
	// match exists.
	FindByCode(ctx context.Context, code int) (medication.Medication, bool, error)
}

// LocationGuard validates and serializes access to one location.
type LocationGuard interface {
	// LockForUpdate takes a row lock on the location inside the current
	// transaction, failing with NotFound when the location does not exist.
	// Concurrent updates for the same location queue behind the lock;
	// different locations never block each other.
	LockForUpdate(ctx context.Context, locationID id.ID) error
}
