package domain

//go:generate mockgen -destination=../../mocks/mock_repositories.go -package=mocks github.com/aryamansrivastava/account-service/internal/auth/domain UserRepository,SessionRepository,DeviceRepository

import "context"

// UserRepository lowercases emails on every write and lookup; callers pass
// them through as received.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, query UserListQuery) (*UserPage, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
}

type DeviceRepository interface {
	Create(ctx context.Context, device *Device) error
	ListByUserID(ctx context.Context, userID string) ([]Device, error)
	LatestByUserID(ctx context.Context, userID string) (*Device, error)
}
