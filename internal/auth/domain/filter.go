package domain

import "time"

// FilterKind enumerates the keys accepted in the user listing filter.
type FilterKind string

const (
	FilterName      FilterKind = "name"
	FilterEmail     FilterKind = "email"
	FilterDate      FilterKind = "date"
	FilterDevice    FilterKind = "device"
	FilterLastLogin FilterKind = "lastLogin"
)

// FilterClause is one parsed filter entry. Text is set for name, email and
// device; Day is set for date and lastLogin.
type FilterClause struct {
	Kind FilterKind
	Text string
	Day  time.Time
}

type UserListQuery struct {
	Page    int
	Size    int
	Search  string
	Filters []FilterClause
}

type UserPage struct {
	Users []User
	Total int
}
