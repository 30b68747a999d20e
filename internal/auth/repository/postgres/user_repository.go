package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/jackc/pgx/v5"
)

const userColumns = "u.id, u.first_name, u.last_name, u.email, u.password_hash, u.created_at, u.updated_at"

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		WHERE u.email = $1
		LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID returns nil, nil when the id does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		WHERE u.id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return autherror.ErrEmailAlreadyInUse
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Update writes every mutable column. PasswordHash is stored as given.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, password_hash = $5, updated_at = $6
		WHERE id = $1
	`, user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.UpdatedAt)
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return autherror.ErrEmailAlreadyInUse
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrUserNotFound
	}

	return nil
}

// Delete removes the user; sessions and devices cascade in the schema.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) List(ctx context.Context, q domain.UserListQuery) (*domain.UserPage, error) {
	where, args, err := buildUserWhere(q)
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	limitArg := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM users u%s ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, limitArg, limitArg+1)
	args = append(args, q.Size, (q.Page-1)*q.Size)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, q.Size)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return &domain.UserPage{Users: users, Total: total}, nil
}
