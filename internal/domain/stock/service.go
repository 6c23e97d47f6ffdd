package stock

import (
	"context"
	"io"
	"time"

	"meditrack/internal/core/id"
	"meditrack/internal/core/tx"
	"meditrack/internal/domain/medication"
	"meditrack/internal/ingest"
	"meditrack/internal/observability/metrics"
	"meditrack/pkg/logger"
)

// Service is the reconciliation engine. It parses uploaded files, resolves
// rows against the catalog, applies matched rows to the stock store, and
// records every upload attempt in the audit trail.
type Service struct {
	catalog   CatalogWriter
	store     Store
	audit     AuditTrail
	locations LocationGuard
	txManager tx.Manager
}

// NewService creates a new reconciliation engine.
func NewService(
	catalog CatalogWriter,
	store Store,
	audit AuditTrail,
	locations LocationGuard,
	txManager tx.Manager,
) *Service {
	return &Service{
		catalog:   catalog,
		store:     store,
		audit:     audit,
		locations: locations,
		txManager: txManager,
	}
}

// IngestCatalog parses a catalog upload and bulk-inserts every record.
// Fully atomic: a parse failure rejects the whole file and nothing is stored.
// Returns the number of distinct records inserted.
func (s *Service) IngestCatalog(ctx context.Context, file io.Reader) (int, error) {
	records, err := ingest.ParseCatalog(file)
	if err != nil {
		metrics.UploadsRejected.WithLabelValues("catalog").Inc()
		return 0, err
	}

	now := time.Now().UTC()
	meds := make([]medication.Medication, len(records))
	for i, rec := range records {
		meds[i] = medication.Medication{
			ID:                   id.New(),
			Code:                 rec.Code,
			Batch:                rec.Batch,
			Name:                 rec.Name,
			Type:                 rec.Type,
			Expiry:               rec.Expiry,
			RequiresPrescription: rec.RequiresPrescription,
			CreatedAt:            now,
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.catalog.CreateBulk(ctx, meds)
	})
	if err != nil {
		return 0, err
	}

	metrics.UploadsProcessed.WithLabelValues("catalog").Inc()
	logger.Info(ctx, "catalog ingested", "records", len(meds))
	return len(meds), nil
}

// ApplyStockUpdate applies a stock delta upload to one location on behalf of
// an employee and returns the number of rows that resulted in a stock write.
//
// The audit record is committed first, in its own transaction, before the
// file is even parsed: every upload attempt is recorded, including ones that
// turn out malformed. The deltas themselves are then applied atomically in a
// second transaction that holds a row lock on the location, so concurrent
// uploads for the same location serialize while other locations proceed.
func (s *Service) ApplyStockUpdate(ctx context.Context, locationID, employeeID id.ID, file io.Reader) (int, error) {
	record := AuditRecord{
		ID:         id.New(),
		LocationID: locationID,
		EmployeeID: employeeID,
		UploadedAt: time.Now().UTC(),
	}
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.audit.Append(ctx, record)
	})
	if err != nil {
		return 0, err
	}

	deltas, err := ingest.ParseStockDeltas(file)
	if err != nil {
		// The audit record stands: the attempt is logged even though no
		// stock changed.
		metrics.UploadsRejected.WithLabelValues("stock").Inc()
		logger.Warn(ctx, "stock upload rejected",
			"location_id", locationID,
			"audit_id", record.ID,
			"error", err,
		)
		return 0, err
	}

	applied := 0
	skipped := 0
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.locations.LockForUpdate(ctx, locationID); err != nil {
			return err
		}

		for _, delta := range deltas {
			if delta.Quantity < 0 {
				// Absolute-set semantics: a negative level is rejected for
				// this row only.
				skipped++
				continue
			}

			med, found, err := s.catalog.FindByCode(ctx, delta.Code)
			if err != nil {
				return err
			}
			if !found {
				skipped++
				continue
			}

			entry := Entry{
				MedicationID: med.ID,
				LocationID:   locationID,
				Quantity:     delta.Quantity,
				UpdatedAt:    time.Now().UTC(),
			}
			if err := s.store.Upsert(ctx, entry); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.UploadsProcessed.WithLabelValues("stock").Inc()
	metrics.StockRowsApplied.Add(float64(applied))
	metrics.StockRowsSkipped.Add(float64(skipped))
	logger.Info(ctx, "stock update applied",
		"location_id", locationID,
		"applied", applied,
		"skipped", skipped,
	)
	return applied, nil
}

// ListAuditByLocation returns the upload history of a location, newest first.
func (s *Service) ListAuditByLocation(ctx context.Context, locationID id.ID) ([]AuditView, error) {
	return s.audit.ListByLocation(ctx, locationID)
}
