package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
)

const medicationTable = "medication"

var medicationColumns = []string{
	"id", "code", "batch", "name", "type", "expiry", "requires_prescription", "created_at",
}

// MedicationRepo implements medication.Repository.
type MedicationRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewMedicationRepo creates a new medication catalog repository.
func NewMedicationRepo(txm *TxManager) *MedicationRepo {
	return &MedicationRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateBulk inserts every record via the COPY protocol. Must run inside a
// transaction so the load is all-or-nothing.
func (r *MedicationRepo) CreateBulk(ctx context.Context, meds []medication.Medication) error {
	if len(meds) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(meds))
	for _, m := range meds {
		rows = append(rows, []any{
			m.ID, m.Code, m.Batch, m.Name, m.Type, m.Expiry, m.RequiresPrescription, m.CreatedAt,
		})
	}

	inserter := NewBatchInserter(r.txm)
	if _, err := inserter.CopyFromSlice(ctx, medicationTable, medicationColumns, rows); err != nil {
		return fmt.Errorf("copy medications: %w", err)
	}
	return nil
}

// GetByID retrieves a medication by id.
func (r *MedicationRepo) GetByID(ctx context.Context, medicationID id.ID) (medication.Medication, error) {
	var med medication.Medication

	q := r.builder.
		Select(medicationColumns...).
		From(medicationTable).
		Where(squirrel.Eq{"id": medicationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return med, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &med, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return med, apperror.NewNotFound("medication", medicationID.String())
		}
		return med, fmt.Errorf("get medication by id: %w", err)
	}

	return med, nil
}

// FindByCode resolves a supplier code. Ids are UUIDv7 (time-ordered), so
// ordering by id descending makes the most recently ingested match win.
func (r *MedicationRepo) FindByCode(ctx context.Context, code int) (medication.Medication, bool, error) {
	var med medication.Medication

	q := r.builder.
		Select(medicationColumns...).
		From(medicationTable).
		Where(squirrel.Eq{"code": code}).
		OrderBy("id DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return med, false, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &med, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return med, false, nil
		}
		return med, false, fmt.Errorf("find medication by code: %w", err)
	}

	return med, true, nil
}

// SearchByName returns summaries whose name contains query, case-insensitively.
func (r *MedicationRepo) SearchByName(ctx context.Context, query string) ([]medication.Summary, error) {
	q := r.builder.
		Select("id", "name", "requires_prescription").
		From(medicationTable).
		Where(squirrel.ILike{"name": "%" + query + "%"}).
		OrderBy("name ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var summaries []medication.Summary
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &summaries, sql, args...); err != nil {
		return nil, fmt.Errorf("search medications by name: %w", err)
	}

	return summaries, nil
}

// Exists checks if a medication id is present.
func (r *MedicationRepo) Exists(ctx context.Context, medicationID id.ID) (bool, error) {
	q := r.builder.
		Select("1").
		From(medicationTable).
		Where(squirrel.Eq{"id": medicationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if pgxscan.NotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("medication exists: %w", err)
	}

	return true, nil
}
