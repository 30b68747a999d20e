package domain

import "time"

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a login-history row. It is written once per successful login
// and never updated; rows go away only with their user.
type Session struct {
	ID        string
	UserID    string
	StartTime time.Time
}

// Device names produced by ClassifyUserAgent.
const (
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
)

type Device struct {
	ID        string
	Name      string
	UserID    string
	CreatedAt time.Time
}

// ServerSession is the identity cached behind the session cookie.
type ServerSession struct {
	UserID           string
	FirstName        string
	LastName         string
	Email            string
	Token            string
	SessionStartTime time.Time
}

// Identity is what the auth gate attaches to a request once a token verifies.
type Identity struct {
	UserID string
	Email  string
}
