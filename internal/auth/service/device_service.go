package service

import (
	"context"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	"github.com/aryamansrivastava/account-service/internal/auth/dto"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type DeviceService struct {
	repo domain.DeviceRepository
}

func NewDeviceService(repo domain.DeviceRepository) *DeviceService {
	return &DeviceService{repo: repo}
}

func (s *DeviceService) Register(ctx context.Context, input dto.CreateDeviceInput) (*domain.Device, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	device := &domain.Device{
		ID:        uuid.NewString(),
		Name:      input.Name,
		UserID:    input.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, device); err != nil {
		if errors.Is(err, autherror.ErrUserNotFound) {
			return nil, autherror.NewNotFound("user not found")
		}
		return nil, autherror.NewInternal(errors.Wrap(err, "create device"))
	}
	return device, nil
}

// ListForUser returns the user's devices newest first. LoggedInFrom classifies
// the caller's own user-agent, not a stored row.
func (s *DeviceService) ListForUser(ctx context.Context, userID, userAgent string) (*dto.DeviceListOutput, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherror.NewNotFound("user not found")
	}

	devices, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, autherror.NewInternal(errors.Wrap(err, "list devices"))
	}

	out := &dto.DeviceListOutput{
		Devices:      make([]dto.DeviceOutput, 0, len(devices)),
		LoggedInFrom: ClassifyUserAgent(userAgent),
	}
	for i := range devices {
		out.Devices = append(out.Devices, dto.NewDeviceOutput(&devices[i]))
	}
	if len(out.Devices) > 0 {
		latest := out.Devices[0]
		out.Latest = &latest
	}
	return out, nil
}
