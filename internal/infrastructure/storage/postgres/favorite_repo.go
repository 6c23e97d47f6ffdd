package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
)

const favoriteTable = "favorite"

// FavoriteRepo implements medication.FavoriteStore.
type FavoriteRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewFavoriteRepo creates a new favorites repository.
func NewFavoriteRepo(txm *TxManager) *FavoriteRepo {
	return &FavoriteRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add marks a medication as favorite for a user. Re-adding is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, userID, medicationID id.ID) error {
	q := r.builder.
		Insert(favoriteTable).
		Columns("user_id", "medication_id").
		Values(userID, medicationID).
		Suffix("ON CONFLICT (user_id, medication_id) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	return nil
}

// ListCardsByUser returns the favorited medications. Quantity stays unset
// because favorites are not tied to a location.
func (r *FavoriteRepo) ListCardsByUser(ctx context.Context, userID id.ID) ([]medication.Card, error) {
	q := r.builder.
		Select(
			"m.id", "m.code", "m.batch", "m.name", "m.type",
			"m.requires_prescription", "m.expiry",
		).
		From(favoriteTable + " f").
		Join(medicationTable + " m ON m.id = f.medication_id").
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("m.name ASC", "m.id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cards []medication.Card
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &cards, sql, args...); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	return cards, nil
}
