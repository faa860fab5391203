package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of a user in the system
type UserRole int

// User role constants
const (
	// UserRoleUser represents a standard user
	UserRoleUser UserRole = iota
	// UserRoleModerator represents a user with moderation rights
	UserRoleModerator
	// UserRoleAdmin represents an administrator user
	UserRoleAdmin
)

// User represents a user in the system
type User struct {
	gorm.Model
	Username    string     `json:"username" gorm:"not null;unique"`
	Email       string     `json:"email" gorm:""`
	Role        UserRole   `json:"role" gorm:"index"`
	SuspendedAt *time.Time `json:"suspended_at" gorm:"index"`
}

// MarshalJSON implements the json.Marshaler interface for User
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User // Create an alias to avoid infinite recursion
	return json.Marshal(Alias(u))
}

func (s UserRole) String() string {
	return []string{
		"user",
		"moderator",
		"admin",
	}[s]
}

// ParseUserRole converts a string representation of a user role to UserRole type
func ParseUserRole(str string) (UserRole, error) {
	for i, role := range []string{
		"user",
		"moderator",
		"admin",
	} {
		if role == str {
			return UserRole(i), nil
		}
	}
	return UserRoleUser, fmt.Errorf("invalid user role: %s", str)
}

// HasModerationRights reports whether the role grants access to reports,
// actions and appeals.
func (s UserRole) HasModerationRights() bool {
	return s >= UserRoleModerator
}

// Suspended reports whether the user is currently suspended
func (u *User) Suspended() bool {
	return u.SuspendedAt != nil
}
