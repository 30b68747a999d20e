package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/jackc/pgx/v5"
)

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, start_time)
		VALUES ($1, $2, $3)
	`, s.ID, s.UserID, s.StartTime)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return autherror.ErrUserNotFound
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID returns ErrSessionNotFound when no row matches.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, start_time
		FROM sessions
		WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.StartTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, autherror.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}
