// Package medication provides the medication catalog: bulk-ingested entries,
// search projections, and per-user favorites.
package medication

import (
	"time"

	"meditrack/internal/core/id"
)

// Medication is a catalog entry. Entries are created in bulk by catalog
// ingestion and never deleted; the supplier code is a lookup key only and is
// not guaranteed unique.
type Medication struct {
	ID                   id.ID     `db:"id" json:"id"`
	Code                 int       `db:"code" json:"code"`
	Batch                string    `db:"batch" json:"batch"`
	Name                 string    `db:"name" json:"name"`
	Type                 string    `db:"type" json:"type"`
	Expiry               time.Time `db:"expiry" json:"expiry"`
	RequiresPrescription bool      `db:"requires_prescription" json:"requiresPrescription"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
}

// Summary is the lightweight projection returned by name search.
type Summary struct {
	ID                   id.ID  `db:"id" json:"id"`
	Name                 string `db:"name" json:"name"`
	RequiresPrescription bool   `db:"requires_prescription" json:"requiresPrescription"`
}

// Card is the joined projection for per-location and favorites listings.
// Quantity and Expiry are pointers: a favorited medication without stock at
// any queried location has no values to attach.
type Card struct {
	ID                   id.ID      `db:"id" json:"id"`
	Code                 int        `db:"code" json:"code"`
	Batch                string     `db:"batch" json:"batch"`
	Name                 string     `db:"name" json:"name"`
	Type                 string     `db:"type" json:"type"`
	RequiresPrescription bool       `db:"requires_prescription" json:"requiresPrescription"`
	Expiry               *time.Time `db:"expiry" json:"expiry,omitempty"`
	Quantity             *int       `db:"quantity" json:"quantity,omitempty"`
}

// Availability is one location carrying a medication, with its quantity.
type Availability struct {
	LocationID   id.ID  `db:"location_id" json:"locationId"`
	LocationName string `db:"location_name" json:"locationName"`
	Neighborhood string `db:"neighborhood" json:"neighborhood"`
	Street       string `db:"street" json:"street"`
	Number       string `db:"number" json:"number"`
	BusLines     string `db:"bus_lines" json:"busLines"`
	Phone        string `db:"phone" json:"phone"`
	Quantity     int    `db:"quantity" json:"quantity"`
}

// Detail is a medication joined with every location that stocks it.
type Detail struct {
	Medication
	Locations []Availability `json:"locations"`
}
