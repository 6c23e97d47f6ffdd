package medication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
)

// --- Fakes ---

type fakeRepo struct {
	meds map[id.ID]Medication
}

func (r *fakeRepo) CreateBulk(_ context.Context, meds []Medication) error {
	for _, m := range meds {
		r.meds[m.ID] = m
	}
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, medicationID id.ID) (Medication, error) {
	med, ok := r.meds[medicationID]
	if !ok {
		return Medication{}, apperror.NewNotFound("medication", medicationID.String())
	}
	return med, nil
}

func (r *fakeRepo) FindByCode(_ context.Context, _ int) (Medication, bool, error) {
	return Medication{}, false, nil
}

func (r *fakeRepo) SearchByName(_ context.Context, query string) ([]Summary, error) {
	summaries := make([]Summary, 0)
	for _, m := range r.meds {
		summaries = append(summaries, Summary{
			ID:                   m.ID,
			Name:                 m.Name,
			RequiresPrescription: m.RequiresPrescription,
		})
	}
	return summaries, nil
}

func (r *fakeRepo) Exists(_ context.Context, medicationID id.ID) (bool, error) {
	_, ok := r.meds[medicationID]
	return ok, nil
}

type fakeStockReader struct {
	availability map[id.ID][]Availability
}

func (s *fakeStockReader) ListCardsByLocation(_ context.Context, _ id.ID) ([]Card, error) {
	return nil, nil
}

func (s *fakeStockReader) ListAvailability(_ context.Context, medicationID id.ID) ([]Availability, error) {
	return s.availability[medicationID], nil
}

type favoriteKey struct {
	userID       id.ID
	medicationID id.ID
}

type fakeFavorites struct {
	added map[favoriteKey]int
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{added: make(map[favoriteKey]int)}
}

func (f *fakeFavorites) Add(_ context.Context, userID, medicationID id.ID) error {
	f.added[favoriteKey{userID, medicationID}]++
	return nil
}

func (f *fakeFavorites) ListCardsByUser(_ context.Context, userID id.ID) ([]Card, error) {
	cards := make([]Card, 0, len(f.added))
	for key := range f.added {
		if key.userID == userID {
			cards = append(cards, Card{ID: key.medicationID})
		}
	}
	return cards, nil
}

func newRepoWith(meds ...Medication) *fakeRepo {
	repo := &fakeRepo{meds: make(map[id.ID]Medication)}
	for _, m := range meds {
		repo.meds[m.ID] = m
	}
	return repo
}

// --- Tests ---

func TestGetByIDJoinsAvailability(t *testing.T) {
	med := Medication{ID: id.New(), Code: 101, Name: "Dipirona 500mg"}
	locID := id.New()

	stock := &fakeStockReader{availability: map[id.ID][]Availability{
		med.ID: {{LocationID: locID, LocationName: "Posto Centro", Quantity: 12}},
	}}
	svc := NewService(newRepoWith(med), stock, newFakeFavorites())

	detail, err := svc.GetByID(context.Background(), med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dipirona 500mg", detail.Name)
	require.Len(t, detail.Locations, 1)
	assert.Equal(t, 12, detail.Locations[0].Quantity)
}

func TestGetByIDUnknownMedication(t *testing.T) {
	svc := NewService(newRepoWith(), &fakeStockReader{}, newFakeFavorites())

	_, err := svc.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAddFavorite(t *testing.T) {
	med := Medication{ID: id.New(), Name: "Amoxicilina 250mg"}
	userID := id.New()
	favorites := newFakeFavorites()
	svc := NewService(newRepoWith(med), &fakeStockReader{}, favorites)

	require.NoError(t, svc.AddFavorite(context.Background(), userID, med.ID))

	cards, err := svc.ListFavorites(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, med.ID, cards[0].ID)
}

func TestAddFavoriteUnknownMedication(t *testing.T) {
	favorites := newFakeFavorites()
	svc := NewService(newRepoWith(), &fakeStockReader{}, favorites)

	err := svc.AddFavorite(context.Background(), id.New(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, favorites.added)
}

func TestAddFavoriteTwiceKeepsOne(t *testing.T) {
	med := Medication{ID: id.New(), Name: "Amoxicilina 250mg"}
	userID := id.New()
	favorites := newFakeFavorites()
	svc := NewService(newRepoWith(med), &fakeStockReader{}, favorites)

	require.NoError(t, svc.AddFavorite(context.Background(), userID, med.ID))
	require.NoError(t, svc.AddFavorite(context.Background(), userID, med.ID))

	cards, err := svc.ListFavorites(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}
