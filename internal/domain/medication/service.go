package medication

import (
	"context"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/pkg/logger"
)

// Service answers catalog queries: name/id search, per-location listings,
// and favorites. Read paths never mutate state.
type Service struct {
	repo      Repository
	stock     StockReader
	favorites FavoriteStore
}

// NewService creates a new catalog search service.
func NewService(repo Repository, stock StockReader, favorites FavoriteStore) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		favorites: favorites,
	}
}

// SearchByName returns summaries whose name contains query, case-insensitively.
func (s *Service) SearchByName(ctx context.Context, query string) ([]Summary, error) {
	return s.repo.SearchByName(ctx, query)
}

// GetByID returns a medication joined with every location stocking it.
func (s *Service) GetByID(ctx context.Context, medicationID id.ID) (Detail, error) {
	med, err := s.repo.GetByID(ctx, medicationID)
	if err != nil {
		return Detail{}, err
	}

	locations, err := s.stock.ListAvailability(ctx, medicationID)
	if err != nil {
		return Detail{}, err
	}

	return Detail{Medication: med, Locations: locations}, nil
}

// ListByLocation returns the card projection of one location's stock.
func (s *Service) ListByLocation(ctx context.Context, locationID id.ID) ([]Card, error) {
	return s.stock.ListCardsByLocation(ctx, locationID)
}

// ListFavorites returns the card projection of a user's favorites.
func (s *Service) ListFavorites(ctx context.Context, userID id.ID) ([]Card, error) {
	return s.favorites.ListCardsByUser(ctx, userID)
}

// AddFavorite marks a medication as a favorite of userID.
// Fails with NotFound if the medication does not exist; duplicate calls are
// idempotent and leave exactly one favorite row.
func (s *Service) AddFavorite(ctx context.Context, userID, medicationID id.ID) error {
	exists, err := s.repo.Exists(ctx, medicationID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("medication", medicationID.String())
	}

	if err := s.favorites.Add(ctx, userID, medicationID); err != nil {
		return err
	}

	logger.Debug(ctx, "favorite added", "medication_id", medicationID, "user_id", userID)
	return nil
}
