package stock

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
)

// --- Fakes ---

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCatalog struct {
	meds []medication.Medication
}

func (c *fakeCatalog) CreateBulk(_ context.Context, meds []medication.Medication) error {
	c.meds = append(c.meds, meds...)
	return nil
}

func (c *fakeCatalog) FindByCode(_ context.Context, code int) (medication.Medication, bool, error) {
	// Last ingested match wins.
	for i := len(c.meds) - 1; i >= 0; i-- {
		if c.meds[i].Code == code {
			return c.meds[i], true, nil
		}
	}
	return medication.Medication{}, false, nil
}

type entryKey struct {
	medicationID id.ID
	locationID   id.ID
}

type fakeStore struct {
	entries map[entryKey]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[entryKey]int)}
}

func (s *fakeStore) Upsert(_ context.Context, entry Entry) error {
	s.entries[entryKey{entry.MedicationID, entry.LocationID}] = entry.Quantity
	return nil
}

type fakeAudit struct {
	locations map[id.ID]bool
	records   []AuditRecord
}

func (a *fakeAudit) Append(_ context.Context, record AuditRecord) error {
	if a.locations != nil && !a.locations[record.LocationID] {
		return apperror.NewNotFound("location", record.LocationID.String())
	}
	a.records = append(a.records, record)
	return nil
}

func (a *fakeAudit) ListByLocation(_ context.Context, locationID id.ID) ([]AuditView, error) {
	views := make([]AuditView, 0)
	for i := len(a.records) - 1; i >= 0; i-- {
		if a.records[i].LocationID == locationID {
			views = append(views, AuditView{
				ID:           a.records[i].ID,
				UploadedAt:   a.records[i].UploadedAt,
				EmployeeName: "Test Employee",
			})
		}
	}
	return views, nil
}

type fakeLocations struct {
	known map[id.ID]bool
	locks int
}

func (l *fakeLocations) LockForUpdate(_ context.Context, locationID id.ID) error {
	if !l.known[locationID] {
		return apperror.NewNotFound("location", locationID.String())
	}
	l.locks++
	return nil
}

type fixture struct {
	service   *Service
	catalog   *fakeCatalog
	store     *fakeStore
	audit     *fakeAudit
	locations *fakeLocations
}

func newFixture(locationIDs ...id.ID) *fixture {
	known := make(map[id.ID]bool, len(locationIDs))
	for _, locID := range locationIDs {
		known[locID] = true
	}

	catalog := &fakeCatalog{}
	store := newFakeStore()
	audit := &fakeAudit{locations: known}
	locations := &fakeLocations{known: known}

	return &fixture{
		service:   NewService(catalog, store, audit, locations, &fakeTxManager{}),
		catalog:   catalog,
		store:     store,
		audit:     audit,
		locations: locations,
	}
}

const catalogCSV = `codigo,lote,produto,tipo,vencimento,necessita_receita
101,L-01,Dipirona 500mg,Analgesico,2027-03-01,false
202,L-02,Amoxicilina 250mg,Antibiotico,2026-11-15,true
`

// --- Catalog ingestion ---

func TestIngestCatalog(t *testing.T) {
	f := newFixture()

	created, err := f.service.IngestCatalog(context.Background(), strings.NewReader(catalogCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	require.Len(t, f.catalog.meds, 2)
	assert.Equal(t, 101, f.catalog.meds[0].Code)
	assert.Equal(t, "Dipirona 500mg", f.catalog.meds[0].Name)
	assert.False(t, f.catalog.meds[0].RequiresPrescription)
	assert.True(t, f.catalog.meds[1].RequiresPrescription)
	assert.False(t, id.IsNil(f.catalog.meds[0].ID))
}

func TestIngestCatalogMalformedFile(t *testing.T) {
	f := newFixture()

	input := "codigo,lote,produto,tipo,vencimento,necessita_receita\nnope,L-01,X,Y,2027-01-01,false\n"
	_, err := f.service.IngestCatalog(context.Background(), strings.NewReader(input))

	require.Error(t, err)
	assert.True(t, apperror.IsMalformedInput(err))
	assert.Empty(t, f.catalog.meds, "nothing may be stored when the file is rejected")
}

// --- Stock reconciliation ---

func TestApplyStockUpdate(t *testing.T) {
	locID := id.New()
	empID := id.New()
	f := newFixture(locID)

	_, err := f.service.IngestCatalog(context.Background(), strings.NewReader(catalogCSV))
	require.NoError(t, err)

	// 101 matches, 999 has no catalog entry, 202 carries a negative level.
	stockCSV := "codigo,quantidade\n101,50\n999,10\n202,-5\n"
	applied, err := f.service.ApplyStockUpdate(context.Background(), locID, empID, strings.NewReader(stockCSV))
	require.NoError(t, err)

	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, f.locations.locks)
	require.Len(t, f.audit.records, 1)
	assert.Equal(t, empID, f.audit.records[0].EmployeeID)

	med, found, err := f.catalog.FindByCode(context.Background(), 101)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 50, f.store.entries[entryKey{med.ID, locID}])
	assert.Len(t, f.store.entries, 1)
}

func TestApplyStockUpdateAuditSurvivesMalformedFile(t *testing.T) {
	locID := id.New()
	f := newFixture(locID)

	_, err := f.service.ApplyStockUpdate(context.Background(), locID, id.New(),
		strings.NewReader("codigo,quantidade\n101,many\n"))

	require.Error(t, err)
	assert.True(t, apperror.IsMalformedInput(err))
	assert.Len(t, f.audit.records, 1, "upload attempt must be recorded even when rejected")
	assert.Empty(t, f.store.entries)
}

func TestApplyStockUpdateUnknownLocation(t *testing.T) {
	f := newFixture() // no known locations

	_, err := f.service.ApplyStockUpdate(context.Background(), id.New(), id.New(),
		strings.NewReader("codigo,quantidade\n101,50\n"))

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.audit.records)
	assert.Empty(t, f.store.entries)
}

func TestApplyStockUpdateReapplyIsIdempotent(t *testing.T) {
	locID := id.New()
	f := newFixture(locID)

	_, err := f.service.IngestCatalog(context.Background(), strings.NewReader(catalogCSV))
	require.NoError(t, err)

	stockCSV := "codigo,quantidade\n101,50\n202,30\n"

	applied, err := f.service.ApplyStockUpdate(context.Background(), locID, id.New(), strings.NewReader(stockCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	applied, err = f.service.ApplyStockUpdate(context.Background(), locID, id.New(), strings.NewReader(stockCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	// Quantities are absolute levels, so replaying changes nothing.
	assert.Len(t, f.store.entries, 2)
	med, _, _ := f.catalog.FindByCode(context.Background(), 101)
	assert.Equal(t, 50, f.store.entries[entryKey{med.ID, locID}])

	// Every attempt still lands in the audit trail.
	assert.Len(t, f.audit.records, 2)
}

func TestListAuditByLocationNewestFirst(t *testing.T) {
	locID := id.New()
	f := newFixture(locID)

	_, err := f.service.IngestCatalog(context.Background(), strings.NewReader(catalogCSV))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.service.ApplyStockUpdate(context.Background(), locID, id.New(),
			strings.NewReader("codigo,quantidade\n101,10\n"))
		require.NoError(t, err)
	}

	views, err := f.service.ListAuditByLocation(context.Background(), locID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, f.audit.records[2].ID, views[0].ID)
}
