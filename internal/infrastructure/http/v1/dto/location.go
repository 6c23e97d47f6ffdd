package dto

import (
	"time"

	"meditrack/internal/domain/location"
	"meditrack/internal/domain/stock"
)

// LocationResponse contains the public fields of a dispensing location.
type LocationResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Neighborhood string   `json:"neighborhood"`
	Street       string   `json:"street"`
	Number       string   `json:"number"`
	BusLines     string   `json:"busLines"`
	Phone        string   `json:"phone"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// FromLocation creates LocationResponse from location.Location.
func FromLocation(l location.Location) LocationResponse {
	resp := LocationResponse{
		ID:           l.ID.String(),
		Name:         l.Name,
		Neighborhood: l.Neighborhood,
		Street:       l.Street,
		Number:       l.Number,
		BusLines:     l.BusLines,
		Phone:        l.Phone,
	}
	if l.Latitude != nil {
		lat := l.Latitude.InexactFloat64()
		resp.Latitude = &lat
	}
	if l.Longitude != nil {
		lon := l.Longitude.InexactFloat64()
		resp.Longitude = &lon
	}
	return resp
}

// FromLocations maps a slice of locations.
func FromLocations(locations []location.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, FromLocation(l))
	}
	return out
}

// NearbyLocationResponse is a location annotated with its distance from the
// query point.
type NearbyLocationResponse struct {
	LocationResponse
	DistanceKm float64 `json:"distanceKm"`
}

// FromNearby maps distance-annotated locations.
func FromNearby(results []location.WithDistance) []NearbyLocationResponse {
	out := make([]NearbyLocationResponse, 0, len(results))
	for _, r := range results {
		out = append(out, NearbyLocationResponse{
			LocationResponse: FromLocation(r.Location),
			DistanceKm:       r.DistanceKm,
		})
	}
	return out
}

// LocationDetailResponse is the full location view with stocked medications.
type LocationDetailResponse struct {
	LocationResponse
	Medications []MedicationCardResponse `json:"medications"`
}

// FromLocationDetail creates LocationDetailResponse from location.Detail.
func FromLocationDetail(d location.Detail) LocationDetailResponse {
	return LocationDetailResponse{
		LocationResponse: FromLocation(d.Location),
		Medications:      FromCards(d.Medications),
	}
}

// NearbyRequest holds proximity search query parameters.
type NearbyRequest struct {
	Latitude  float64 `form:"lat" binding:"required,min=-90,max=90"`
	Longitude float64 `form:"lon" binding:"required,min=-180,max=180"`
	RadiusKm  float64 `form:"radiusKm" binding:"required,gt=0"`
}

// AuditResponse is one stock upload event.
type AuditResponse struct {
	ID           string `json:"id"`
	UploadedAt   string `json:"uploadedAt"`
	EmployeeName string `json:"employeeName"`
}

// FromAuditViews maps audit history entries.
func FromAuditViews(views []stock.AuditView) []AuditResponse {
	out := make([]AuditResponse, 0, len(views))
	for _, v := range views {
		out = append(out, AuditResponse{
			ID:           v.ID.String(),
			UploadedAt:   v.UploadedAt.UTC().Format(time.RFC3339),
			EmployeeName: v.EmployeeName,
		})
	}
	return out
}
