// Package location provides the distribution-point directory and proximity
// queries. Locations are created by external bulk load and are read-only here.
package location

import (
	"github.com/shopspring/decimal"

	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
)

// MedicationCard is the joined stock projection attached to a location detail.
type MedicationCard = medication.Card

// Location is a physical distribution point. Coordinates are NUMERIC(9,6) in
// the store and may be absent for points the geocoding pass could not resolve;
// such locations are silently excluded from proximity queries.
type Location struct {
	ID           id.ID            `db:"id" json:"id"`
	Name         string           `db:"name" json:"name"`
	Neighborhood string           `db:"neighborhood" json:"neighborhood"`
	Street       string           `db:"street" json:"street"`
	Number       string           `db:"number" json:"number"`
	BusLines     string           `db:"bus_lines" json:"busLines"`
	Phone        string           `db:"phone" json:"phone"`
	Latitude     *decimal.Decimal `db:"latitude" json:"latitude,omitempty"`
	Longitude    *decimal.Decimal `db:"longitude" json:"longitude,omitempty"`
}

// HasCoordinates reports whether both coordinates are present.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// WithDistance is a location annotated with its distance from a query point.
type WithDistance struct {
	Location
	DistanceKm float64 `json:"distanceKm"`
}

// Detail is a location joined with the medication cards it stocks.
type Detail struct {
	Location
	Medications []MedicationCard `json:"medications"`
}
