package dto

import (
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
)

type CreateDeviceInput struct {
	Name   string `json:"name" validate:"required,oneof=Mobile Tablet Desktop"`
	UserID string `json:"userId" validate:"required,uuid"`
}

type DeviceOutput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewDeviceOutput(d *domain.Device) DeviceOutput {
	return DeviceOutput{ID: d.ID, Name: d.Name, UserID: d.UserID, CreatedAt: d.CreatedAt}
}

type DeviceListOutput struct {
	Devices      []DeviceOutput `json:"devices"`
	Latest       *DeviceOutput  `json:"latest"`
	LoggedInFrom string         `json:"loggedInFrom"`
}
