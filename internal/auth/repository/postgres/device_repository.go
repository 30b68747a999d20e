package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/jackc/pgx/v5"
)

type DeviceRepository struct {
	db DB
}

func NewDeviceRepository(db DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, d *domain.Device) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO devices (id, name, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, d.ID, d.Name, d.UserID, d.CreatedAt)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return autherror.ErrUserNotFound
		}
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

// ListByUserID returns the user's devices, newest first.
func (r *DeviceRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Device, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, user_id, created_at
		FROM devices
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	devices := []domain.Device{}
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.UserID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}
	return devices, nil
}

// LatestByUserID returns nil, nil when the user has no devices.
func (r *DeviceRepository) LatestByUserID(ctx context.Context, userID string) (*domain.Device, error) {
	var d domain.Device
	err := r.db.QueryRow(ctx, `
		SELECT id, name, user_id, created_at
		FROM devices
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).Scan(&d.ID, &d.Name, &d.UserID, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest device: %w", err)
	}
	return &d, nil
}
