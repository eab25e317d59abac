package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold. Authorization rules
// match on these values; an unknown role never makes it past token
// verification or request validation.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleStaff     Role = "staff"
	RoleVolunteer Role = "volunteer"
)

// ParseRole converts a wire value into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleOrganizer, RoleStaff, RoleVolunteer:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// UserStatus represents lifecycle states for a user record.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// ParseUserStatus converts a wire value into a UserStatus.
func ParseUserStatus(value string) (UserStatus, error) {
	switch UserStatus(value) {
	case UserStatusActive, UserStatusInactive:
		return UserStatus(value), nil
	default:
		return "", fmt.Errorf("unknown status %q", value)
	}
}

// User is the domain model for directory records.
type User struct {
	ID        string
	Name      string
	Surname   string
	Email     string
	Phone     string
	Role      Role
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
