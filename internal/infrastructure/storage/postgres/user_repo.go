package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meditrack/internal/core/apperror"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/auth"
)

const userTable = "app_user"

var userColumns = []string{
	"id", "full_name", "email", "cpf", "password_hash", "role", "location_id", "created_at",
}

// UserRepo implements auth.Repository.
type UserRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewUserRepo creates a new user account repository.
func NewUserRepo(txm *TxManager) *UserRepo {
	return &UserRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	var user auth.User

	q := r.builder.
		Select(userColumns...).
		From(userTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return user, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return user, apperror.NewNotFound("user", email)
		}
		return user, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (auth.User, error) {
	var user auth.User

	q := r.builder.
		Select(userColumns...).
		From(userTable).
		Where(squirrel.Eq{"id": userID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return user, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return user, apperror.NewNotFound("user", userID.String())
		}
		return user, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// ExistsByEmailOrCPF checks whether an account already uses the email or CPF.
func (r *UserRepo) ExistsByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error) {
	q := r.builder.
		Select("1").
		From(userTable).
		Where(squirrel.Or{
			squirrel.Eq{"email": email},
			squirrel.Eq{"cpf": cpf},
		}).
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
		return false, fmt.Errorf("user exists: %w", err)
	}

	return true, nil
}

// Create inserts a new user account.
func (r *UserRepo) Create(ctx context.Context, user auth.User) error {
	q := r.builder.
		Insert(userTable).
		Columns(userColumns...).
		Values(
			user.ID, user.FullName, user.Email, user.CPF,
			user.PasswordHash, user.Role, user.LocationID, user.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}
