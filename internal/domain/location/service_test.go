package location

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
)

// --- Fakes ---

type fakeRepo struct {
	locations []Location
}

func (r *fakeRepo) List(_ context.Context) ([]Location, error) {
	return r.locations, nil
}

func (r *fakeRepo) GetByID(_ context.Context, locationID id.ID) (Location, error) {
	for _, loc := range r.locations {
		if loc.ID == locationID {
			return loc, nil
		}
	}
	return Location{}, apperror.NewNotFound("location", locationID.String())
}

func (r *fakeRepo) SearchByName(_ context.Context, _ string) ([]Location, error) {
	return r.locations, nil
}

func (r *fakeRepo) LockForUpdate(_ context.Context, _ id.ID) error {
	return nil
}

type fakeCardLister struct {
	cards map[id.ID][]medication.Card
}

func (l *fakeCardLister) ListCardsByLocation(_ context.Context, locationID id.ID) ([]medication.Card, error) {
	return l.cards[locationID], nil
}

func coord(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func locationAt(name, lat, lon string) Location {
	return Location{
		ID:        id.New(),
		Name:      name,
		Latitude:  coord(lat),
		Longitude: coord(lon),
	}
}

// --- Proximity search ---

func TestFindNearbySortsByDistance(t *testing.T) {
	far := locationAt("Far", "0", "2")
	near := locationAt("Near", "0", "0.1")
	mid := locationAt("Mid", "0", "1")

	svc := NewService(&fakeRepo{locations: []Location{far, near, mid}}, &fakeCardLister{})

	results, err := svc.FindNearby(context.Background(), 0, 0, 500)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Near", results[0].Name)
	assert.Equal(t, "Mid", results[1].Name)
	assert.Equal(t, "Far", results[2].Name)
	assert.Less(t, results[0].DistanceKm, results[1].DistanceKm)
}

func TestFindNearbyRadiusIsInclusive(t *testing.T) {
	// One degree of longitude at the equator is about 111.19 km.
	onEdge := locationAt("Edge", "0", "1")
	beyond := locationAt("Beyond", "0", "2")

	svc := NewService(&fakeRepo{locations: []Location{onEdge, beyond}}, &fakeCardLister{})

	results, err := svc.FindNearby(context.Background(), 0, 0, 111.2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Edge", results[0].Name)
	assert.InDelta(t, 111.19, results[0].DistanceKm, 0.01)
}

func TestFindNearbySkipsLocationsWithoutCoordinates(t *testing.T) {
	located := locationAt("Located", "0", "0.1")
	unlocated := Location{ID: id.New(), Name: "Unlocated"}
	partial := Location{ID: id.New(), Name: "Partial", Latitude: coord("0")}

	svc := NewService(&fakeRepo{locations: []Location{unlocated, located, partial}}, &fakeCardLister{})

	results, err := svc.FindNearby(context.Background(), 0, 0, 1000)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Located", results[0].Name)
}

func TestFindNearbyEmptyResult(t *testing.T) {
	far := locationAt("Far", "10", "10")

	svc := NewService(&fakeRepo{locations: []Location{far}}, &fakeCardLister{})

	results, err := svc.FindNearby(context.Background(), 0, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// --- Directory ---

func TestGetByIDJoinsCards(t *testing.T) {
	loc := locationAt("Posto Centro", "-3.7", "-38.5")
	cards := &fakeCardLister{cards: map[id.ID][]medication.Card{
		loc.ID: {{ID: id.New(), Code: 101, Name: "Dipirona 500mg"}},
	}}

	svc := NewService(&fakeRepo{locations: []Location{loc}}, cards)

	detail, err := svc.GetByID(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Posto Centro", detail.Name)
	require.Len(t, detail.Medications, 1)
	assert.Equal(t, 101, detail.Medications[0].Code)
}

func TestGetByIDUnknownLocation(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeCardLister{})

	_, err := svc.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
