package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

type UserService struct {
	repo         domain.UserRepository
	sessionRepo  domain.SessionRepository
	deviceRepo   domain.DeviceRepository
	tokenService TokenGenerator
	hasher       PasswordHasher
	now          func() time.Time
}

func NewUserService(
	repo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	deviceRepo domain.DeviceRepository,
	tokenService TokenGenerator,
	hasher PasswordHasher,
) *UserService {
	return &UserService{
		repo:         repo,
		sessionRepo:  sessionRepo,
		deviceRepo:   deviceRepo,
		tokenService: tokenService,
		hasher:       hasher,
		now:          time.Now,
	}
}

// LoginResult carries everything the HTTP layer needs to establish the
// server-side session and the token cookie.
type LoginResult struct {
	User    *domain.User
	Token   string
	Session *domain.Session
	Device  *domain.Device
}

func trimSignup(input *dto.SignupInput) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
}

// Signup creates the user and issues its first token. If the token cannot be
// issued the new user is deleted again before the error is returned.
func (s *UserService) Signup(ctx context.Context, input dto.SignupInput) (*domain.User, string, error) {
	user, err := s.createUser(ctx, input)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokenService.Issue(user.ID, user.Email)
	if err != nil {
		if _, delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			slog.ErrorContext(ctx, "failed to roll back user after token failure",
				slog.String("user_id", user.ID),
				slog.String("error", delErr.Error()),
			)
		}
		slog.WarnContext(ctx, "signup rolled back, token issuance failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, "", autherror.NewTokenError(err)
	}

	slog.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// CreateUser creates a user without issuing a token.
func (s *UserService) CreateUser(ctx context.Context, input dto.SignupInput) (*domain.User, error) {
	return s.createUser(ctx, input)
}

func (s *UserService) createUser(ctx context.Context, input dto.SignupInput) (*domain.User, error) {
	trimSignup(&input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, autherror.NewInternal(err)
	}
	if existingUser != nil {
		return nil, autherror.NewConflict("user already exists")
	}

	// The only place a plaintext password becomes a stored hash on creation.
	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, autherror.NewInternal(err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return nil, autherror.NewConflict("user already exists")
		}
		return nil, autherror.NewInternal(err)
	}

	return user, nil
}

// Login verifies credentials, issues a token and records a login-history
// session plus the device the login came from.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*LoginResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, autherror.NewInternal(err)
	}

	if user == nil || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, autherror.NewInvalidCredentials()
	}

	token, err := s.tokenService.Issue(user.ID, user.Email)
	if err != nil {
		if errors.Is(err, autherror.ErrMissingSigningSecret) {
			return nil, autherror.NewConfiguration(err)
		}
		return nil, autherror.NewTokenError(err)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		StartTime: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, autherror.NewInternal(err)
	}

	device := &domain.Device{
		ID:        uuid.NewString(),
		Name:      ClassifyUserAgent(input.UserAgent),
		UserID:    user.ID,
		CreatedAt: now,
	}
	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, autherror.NewInternal(err)
	}

	slog.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("device", device.Name),
	)

	return &LoginResult{User: user, Token: token, Session: session, Device: device}, nil
}

// GetUser reports NotFound for ids that are not UUIDs as well as missing rows.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, autherror.NewNotFound("user not found")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherror.NewInternal(err)
	}
	if user == nil {
		return nil, autherror.NewNotFound("user not found")
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, input dto.ListUsersInput) (*dto.UserListOutput, error) {
	filters, err := ParseUserFilter(input.Filter)
	if err != nil {
		return nil, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	size := input.Size
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	result, err := s.repo.List(ctx, domain.UserListQuery{
		Page:    page,
		Size:    size,
		Search:  strings.TrimSpace(input.Search),
		Filters: filters,
	})
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidFilter) {
			return nil, autherror.NewBadRequest(err.Error())
		}
		return nil, autherror.NewInternal(err)
	}

	totalPages := int(math.Ceil(float64(result.Total) / float64(size)))
	data := make([]dto.UserOutput, 0, len(result.Users))
	for i := range result.Users {
		data = append(data, dto.NewUserOutput(&result.Users[i]))
	}

	return &dto.UserListOutput{
		Data:        data,
		TotalUsers:  result.Total,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// UpdateUser replaces the profile fields. A new password, when supplied, is
// hashed here; the stored hash is otherwise written back untouched.
func (s *UserService) UpdateUser(ctx context.Context, id string, input dto.UpdateUserInput) (*domain.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(user.Email, input.Email) {
		other, err := s.repo.GetByEmail(ctx, input.Email)
		if err != nil {
			return nil, autherror.NewInternal(err)
		}
		if other != nil && other.ID != user.ID {
			return nil, autherror.NewConflict("email already in use")
		}
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Email = input.Email
	if input.Password != "" {
		hashedPassword, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, autherror.NewInternal(err)
		}
		user.PasswordHash = hashedPassword
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, autherror.ErrEmailAlreadyInUse):
			return nil, autherror.NewConflict("email already in use")
		case errors.Is(err, autherror.ErrUserNotFound):
			return nil, autherror.NewNotFound("user not found")
		}
		return nil, autherror.NewInternal(err)
	}

	return user, nil
}

// DeleteUser removes the user; login history and devices go with it.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return autherror.NewNotFound("user not found")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return autherror.NewInternal(err)
	}
	if !deleted {
		return autherror.NewNotFound("user not found")
	}

	slog.InfoContext(ctx, "user deleted", slog.String("user_id", id))
	return nil
}
