package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/stock"
)

const auditTable = "stock_audit"

// foreign_key_violation
const pgFKViolation = "23503"

// AuditRepo implements stock.AuditTrail.
type AuditRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewAuditRepo creates a new stock audit repository.
func NewAuditRepo(txm *TxManager) *AuditRepo {
	return &AuditRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append records a stock upload event. Unknown location or employee ids
// surface as not-found errors instead of raw constraint violations.
func (r *AuditRepo) Append(ctx context.Context, record stock.AuditRecord) error {
	q := r.builder.
		Insert(auditTable).
		Columns("id", "location_id", "employee_id", "uploaded_at").
		Values(record.ID, record.LocationID, record.EmployeeID, record.UploadedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			if strings.Contains(pgErr.ConstraintName, "employee") {
				return apperror.NewNotFound("employee", record.EmployeeID.String())
			}
			return apperror.NewNotFound("location", record.LocationID.String())
		}
		return fmt.Errorf("append stock audit: %w", err)
	}

	return nil
}

// ListByLocation returns the upload history for a location, newest first.
func (r *AuditRepo) ListByLocation(ctx context.Context, locationID id.ID) ([]stock.AuditView, error) {
	q := r.builder.
		Select("a.id", "a.uploaded_at", "u.full_name AS employee_name").
		From(auditTable + " a").
		Join(userTable + " u ON u.id = a.employee_id").
		Where(squirrel.Eq{"a.location_id": locationID}).
		OrderBy("a.uploaded_at DESC", "a.id DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var views []stock.AuditView
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &views, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock audit: %w", err)
	}

	return views, nil
}
