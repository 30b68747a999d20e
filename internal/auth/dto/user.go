package dto

import (
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
)

// UserOutput never carries the password hash.
type UserOutput struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ListUsersInput struct {
	Page   int
	Size   int
	Search string
	Filter string
}

type UserListOutput struct {
	Data        []UserOutput `json:"data"`
	TotalUsers  int          `json:"totalUsers"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	HasNextPage bool         `json:"hasNextPage"`
	HasPrevPage bool         `json:"hasPrevPage"`
}
