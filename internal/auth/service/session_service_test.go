package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	"github.com/aryamansrivastava/account-service/internal/auth/service"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/aryamansrivastava/account-service/internal/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_StartSession(t *testing.T) {
	userID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSessionRepository(ctrl)
		s := service.NewSessionService(repo)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		session, err := s.StartSession(context.Background(), dto.StartSessionInput{
			UserID:    userID,
			StartTime: "2024-05-01T12:30:00+02:00",
		})

		require.NoError(t, err)
		assert.Equal(t, userID, session.UserID)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), session.StartTime)
		assert.NotEmpty(t, session.ID)
	})

	t.Run("invalid payload", func(t *testing.T) {
		s := service.NewSessionService(mocks.NewMockSessionRepository(gomock.NewController(t)))

		_, err := s.StartSession(context.Background(), dto.StartSessionInput{UserID: "nope", StartTime: "yesterday"})

		requireAppError(t, err, http.StatusBadRequest, autherror.TypeValidation)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSessionRepository(ctrl)
		s := service.NewSessionService(repo)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(autherror.ErrUserNotFound)

		_, err := s.StartSession(context.Background(), dto.StartSessionInput{
			UserID:    userID,
			StartTime: "2024-05-01T12:30:00Z",
		})

		requireAppError(t, err, http.StatusNotFound, autherror.TypeNotFound)
	})
}

func TestSessionService_GetSession(t *testing.T) {
	id := uuid.NewString()

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSessionRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Session{ID: id}, nil)

		session, err := service.NewSessionService(repo).GetSession(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, session.ID)
	})

	t.Run("missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSessionRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, autherror.ErrSessionNotFound)

		_, err := service.NewSessionService(repo).GetSession(context.Background(), id)

		requireAppError(t, err, http.StatusNotFound, autherror.TypeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		s := service.NewSessionService(mocks.NewMockSessionRepository(gomock.NewController(t)))

		_, err := s.GetSession(context.Background(), "123")

		requireAppError(t, err, http.StatusBadRequest, autherror.TypeBadRequest)
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSessionRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, errors.New("db down"))

		_, err := service.NewSessionService(repo).GetSession(context.Background(), id)

		requireAppError(t, err, http.StatusInternalServerError, autherror.TypeInternal)
	})
}
