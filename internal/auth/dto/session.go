package dto

import (
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
)

type StartSessionInput struct {
	UserID    string `json:"userId" validate:"required,uuid"`
	StartTime string `json:"startTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

type SessionOutput struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	StartTime time.Time `json:"startTime"`
}

func NewSessionOutput(s *domain.Session) SessionOutput {
	return SessionOutput{ID: s.ID, UserID: s.UserID, StartTime: s.StartTime}
}
