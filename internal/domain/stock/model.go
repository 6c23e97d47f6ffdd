// Package stock provides the reconciliation engine: bulk catalog ingestion,
// per-location stock updates from uploaded delta files, and the append-only
// audit trail of upload events.
package stock

import (
	"time"

	"meditrack/internal/core/id"
)

// Entry is the (medication, location) stock join. The pair is the key;
// quantity is an absolute level, never negative.
type Entry struct {
	MedicationID id.ID     `db:"medication_id" json:"medicationId"`
	LocationID   id.ID     `db:"location_id" json:"locationId"`
	Quantity     int       `db:"quantity" json:"quantity"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// AuditRecord is one upload event. Records are append-only and immutable;
// one is written per upload attempt regardless of per-row outcome.
type AuditRecord struct {
	ID         id.ID     `db:"id" json:"id"`
	LocationID id.ID     `db:"location_id" json:"locationId"`
	EmployeeID id.ID     `db:"employee_id" json:"employeeId"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// AuditView is the audit listing projection, joined with the uploading
// employee's name.
type AuditView struct {
	ID           id.ID     `db:"id" json:"id"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploadedAt"`
	EmployeeName string    `db:"employee_name" json:"employeeName"`
}
