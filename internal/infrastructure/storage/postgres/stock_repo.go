package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
	"meditrack/internal/domain/stock"
)

const stockTable = "stock_entry"

// StockRepo implements stock.Store plus the joined read side consumed by the
// medication and location services.
type StockRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock entry repository.
func NewStockRepo(txm *TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert sets the absolute quantity for a medication at a location.
func (r *StockRepo) Upsert(ctx context.Context, entry stock.Entry) error {
	q := r.builder.
		Insert(stockTable).
		Columns("medication_id", "location_id", "quantity", "updated_at").
		Values(entry.MedicationID, entry.LocationID, entry.Quantity, entry.UpdatedAt).
		Suffix("ON CONFLICT (medication_id, location_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert stock entry: %w", err)
	}

	return nil
}

// ListCardsByLocation returns the medications stocked at a location with
// their current quantities.
func (r *StockRepo) ListCardsByLocation(ctx context.Context, locationID id.ID) ([]medication.Card, error) {
	q := r.builder.
		Select(
			"m.id", "m.code", "m.batch", "m.name", "m.type",
			"m.requires_prescription", "m.expiry", "s.quantity",
		).
		From(stockTable + " s").
		Join(medicationTable + " m ON m.id = s.medication_id").
		Where(squirrel.Eq{"s.location_id": locationID}).
		OrderBy("m.name ASC", "m.id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cards []medication.Card
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &cards, sql, args...); err != nil {
		return nil, fmt.Errorf("list cards by location: %w", err)
	}

	return cards, nil
}

// ListAvailability returns every location stocking a medication together
// with the quantity held there.
func (r *StockRepo) ListAvailability(ctx context.Context, medicationID id.ID) ([]medication.Availability, error) {
	q := r.builder.
		Select(
			"l.id AS location_id", "l.name AS location_name", "l.neighborhood",
			"l.street", "l.number", "l.bus_lines", "l.phone", "s.quantity",
		).
		From(stockTable + " s").
		Join(locationTable + " l ON l.id = s.location_id").
		Where(squirrel.Eq{"s.medication_id": medicationID}).
		OrderBy("l.name ASC", "l.id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var availability []medication.Availability
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &availability, sql, args...); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	return availability, nil
}
