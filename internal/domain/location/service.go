package location

import (
	"context"
	"sort"

	"meditrack/internal/core/id"
	"meditrack/pkg/geo"
)

// Service answers location directory and proximity queries.
type Service struct {
	repo  Repository
	cards CardLister
}

// NewService creates a new location service.
func NewService(repo Repository, cards CardLister) *Service {
	return &Service{repo: repo, cards: cards}
}

// List returns every location.
func (s *Service) List(ctx context.Context) ([]Location, error) {
	return s.repo.List(ctx)
}

// SearchByName returns locations whose name contains query, case-insensitively.
func (s *Service) SearchByName(ctx context.Context, query string) ([]Location, error) {
	return s.repo.SearchByName(ctx, query)
}

// GetByID returns a location joined with the medication cards it stocks.
func (s *Service) GetByID(ctx context.Context, locationID id.ID) (Detail, error) {
	loc, err := s.repo.GetByID(ctx, locationID)
	if err != nil {
		return Detail{}, err
	}

	cards, err := s.cards.ListCardsByLocation(ctx, locationID)
	if err != nil {
		return Detail{}, err
	}

	return Detail{Location: loc, Medications: cards}, nil
}

// FindNearby returns every location within radiusKm of (lat, lon), radius
// inclusive, ordered by ascending distance with ties kept in input order.
// Locations missing either coordinate are excluded; that is policy, not an
// error. The computation is pure: no state is read beyond the location list.
func (s *Service) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]WithDistance, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]WithDistance, 0, len(locations))
	for _, loc := range locations {
		if !loc.HasCoordinates() {
			continue
		}

		distance := geo.HaversineKm(lat, lon,
			loc.Latitude.InexactFloat64(),
			loc.Longitude.InexactFloat64(),
		)
		if distance > radiusKm {
			continue
		}

		nearby = append(nearby, WithDistance{Location: loc, DistanceKm: distance})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return nearby, nil
}
