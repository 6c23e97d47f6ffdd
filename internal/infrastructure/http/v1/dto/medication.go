package dto

import (
	"time"

	"meditrack/internal/domain/medication"
)

const dateLayout = "2006-01-02"

// MedicationSummaryResponse is the name-search projection.
type MedicationSummaryResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	RequiresPrescription bool   `json:"requiresPrescription"`
}

// FromSummary creates MedicationSummaryResponse from medication.Summary.
func FromSummary(s medication.Summary) MedicationSummaryResponse {
	return MedicationSummaryResponse{
		ID:                   s.ID.String(),
		Name:                 s.Name,
		RequiresPrescription: s.RequiresPrescription,
	}
}

// FromSummaries maps a slice of summaries.
func FromSummaries(summaries []medication.Summary) []MedicationSummaryResponse {
	out := make([]MedicationSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, FromSummary(s))
	}
	return out
}

// MedicationCardResponse is the stocked-medication projection. Quantity and
// expiry are omitted when the view has no stock context for them.
type MedicationCardResponse struct {
	ID                   string `json:"id"`
	Code                 int    `json:"code"`
	Batch                string `json:"batch"`
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	RequiresPrescription bool   `json:"requiresPrescription"`
	Expiry               string `json:"expiry,omitempty"`
	Quantity             *int   `json:"quantity,omitempty"`
}

// FromCard creates MedicationCardResponse from medication.Card.
func FromCard(c medication.Card) MedicationCardResponse {
	resp := MedicationCardResponse{
		ID:                   c.ID.String(),
		Code:                 c.Code,
		Batch:                c.Batch,
		Name:                 c.Name,
		Type:                 c.Type,
		RequiresPrescription: c.RequiresPrescription,
		Quantity:             c.Quantity,
	}
	if c.Expiry != nil {
		resp.Expiry = c.Expiry.Format(dateLayout)
	}
	return resp
}

// FromCards maps a slice of cards.
func FromCards(cards []medication.Card) []MedicationCardResponse {
	out := make([]MedicationCardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, FromCard(c))
	}
	return out
}

// AvailabilityResponse describes one location stocking a medication.
type AvailabilityResponse struct {
	LocationID   string `json:"locationId"`
	LocationName string `json:"locationName"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	BusLines     string `json:"busLines"`
	Phone        string `json:"phone"`
	Quantity     int    `json:"quantity"`
}

// MedicationDetailResponse is the full medication view with availability.
type MedicationDetailResponse struct {
	ID                   string                 `json:"id"`
	Code                 int                    `json:"code"`
	Batch                string                 `json:"batch"`
	Name                 string                 `json:"name"`
	Type                 string                 `json:"type"`
	Expiry               string                 `json:"expiry"`
	RequiresPrescription bool                   `json:"requiresPrescription"`
	CreatedAt            time.Time              `json:"createdAt"`
	Locations            []AvailabilityResponse `json:"locations"`
}

// FromDetail creates MedicationDetailResponse from medication.Detail.
func FromDetail(d medication.Detail) MedicationDetailResponse {
	locations := make([]AvailabilityResponse, 0, len(d.Locations))
	for _, a := range d.Locations {
		locations = append(locations, AvailabilityResponse{
			LocationID:   a.LocationID.String(),
			LocationName: a.LocationName,
			Neighborhood: a.Neighborhood,
			Street:       a.Street,
			Number:       a.Number,
			BusLines:     a.BusLines,
			Phone:        a.Phone,
			Quantity:     a.Quantity,
		})
	}
	return MedicationDetailResponse{
		ID:                   d.ID.String(),
		Code:                 d.Code,
		Batch:                d.Batch,
		Name:                 d.Name,
		Type:                 d.Type,
		Expiry:               d.Expiry.Format(dateLayout),
		RequiresPrescription: d.RequiresPrescription,
		CreatedAt:            d.CreatedAt,
		Locations:            locations,
	}
}
