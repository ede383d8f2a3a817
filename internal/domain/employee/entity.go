package employee

import (
	"time"
)

// Role separates ordinary personnel from authorized (supervisory) users.
type Role string

const (
	RolePersonnel  Role = "personnel"
	RoleAuthorized Role = "authorized"
)

func (r Role) Valid() bool {
	return r == RolePersonnel || r == RoleAuthorized
}

type Employee struct {
	ID         string
	Username   string
	FullName   string
	Department string
	Position   string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
