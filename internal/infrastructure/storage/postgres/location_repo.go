package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/location"
)

const locationTable = "location"

var locationColumns = []string{
	"id", "name", "neighborhood", "street", "number", "bus_lines", "phone", "latitude", "longitude",
}

// LocationRepo implements location.Repository.
type LocationRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewLocationRepo creates a new dispensing location repository.
func NewLocationRepo(txm *TxManager) *LocationRepo {
	return &LocationRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns every location in insertion order.
func (r *LocationRepo) List(ctx context.Context) ([]location.Location, error) {
	q := r.builder.
		Select(locationColumns...).
		From(locationTable).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var locations []location.Location
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &locations, sql, args...); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	return locations, nil
}

// GetByID retrieves a location by id.
func (r *LocationRepo) GetByID(ctx context.Context, locationID id.ID) (location.Location, error) {
	var loc location.Location

	q := r.builder.
		Select(locationColumns...).
		From(locationTable).
		Where(squirrel.Eq{"id": locationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return loc, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &loc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return loc, apperror.NewNotFound("location", locationID.String())
		}
		return loc, fmt.Errorf("get location by id: %w", err)
	}

	return loc, nil
}

// SearchByName returns locations whose name contains query, case-insensitively.
func (r *LocationRepo) SearchByName(ctx context.Context, query string) ([]location.Location, error) {
	q := r.builder.
		Select(locationColumns...).
		From(locationTable).
		Where(squirrel.ILike{"name": "%" + query + "%"}).
		OrderBy("name ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var locations []location.Location
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &locations, sql, args...); err != nil {
		return nil, fmt.Errorf("search locations by name: %w", err)
	}

	return locations, nil
}

// LockForUpdate takes a row lock on the location, serializing concurrent
// stock uploads for it. Must run inside a transaction.
func (r *LocationRepo) LockForUpdate(ctx context.Context, locationID id.ID) error {
	q := r.builder.
		Select("id").
		From(locationTable).
		Where(squirrel.Eq{"id": locationID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var locked id.ID
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&locked)
	if pgxscan.NotFound(err) {
		return apperror.NewNotFound("location", locationID.String())
	}
	if err != nil {
		return fmt.Errorf("lock location: %w", err)
	}

	return nil
}

// Exists checks if a location id is present.
func (r *LocationRepo) Exists(ctx context.Context, locationID id.ID) (bool, error) {
	q := r.builder.
		Select("1").
		From(locationTable).
		Where(squirrel.Eq{"id": locationID}).
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
		return false, fmt.Errorf("location exists: %w", err)
	}

	return true, nil
}
