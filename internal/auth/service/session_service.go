package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type SessionService struct {
	repo domain.SessionRepository
}

func NewSessionService(repo domain.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// StartSession records a login-history row with an explicit start time.
func (s *SessionService) StartSession(ctx context.Context, input dto.StartSessionInput) (*domain.Session, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	startTime, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		return nil, autherror.NewValidation([]autherror.FieldError{
			{Field: "startTime", Message: "startTime must be an RFC 3339 timestamp"},
		})
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		StartTime: startTime.UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		if errors.Is(err, autherror.ErrUserNotFound) {
			return nil, autherror.NewNotFound("user not found")
		}
		return nil, autherror.NewInternal(errors.Wrap(err, "create session"))
	}

	slog.InfoContext(ctx, "session started",
		slog.String("session_id", session.ID),
		slog.String("user_id", session.UserID),
	)
	return session, nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, autherror.NewBadRequest("invalid session id")
	}

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if autherror.Is(err, autherror.ErrSessionNotFound) {
			return nil, autherror.NewNotFound("session not found")
		}
		return nil, autherror.NewInternal(errors.Wrap(err, "get session"))
	}
	return session, nil
}
