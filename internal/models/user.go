package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "superadmin"
)

// rank orders roles: user < admin < superadmin.
func (r UserRole) rank() int {
	switch r {
	case UserRoleSuperAdmin:
		return 2
	case UserRoleAdmin:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r sits at or above min in the role hierarchy.
func (r UserRole) AtLeast(min UserRole) bool {
	return r.rank() >= min.rank()
}

// NormalizeRole maps a stored role value onto the hierarchy. Absent or
// unrecognized values are treated as the lowest role.
func NormalizeRole(raw string) UserRole {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case UserRoleAdmin:
		return UserRoleAdmin
	case UserRoleSuperAdmin:
		return UserRoleSuperAdmin
	default:
		return UserRoleUser
	}
}

// NormalizeEmail is the single case-folding rule for every email stored,
// looked up or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type User struct {
	Email       string    `bson:"email" json:"email"`
	FullName    string    `bson:"fullName" json:"fullName"`
	ID          string    `bson:"id,omitempty" json:"id,omitempty"`
	UserType    string    `bson:"userType,omitempty" json:"userType,omitempty"`
	Department  string    `bson:"department,omitempty" json:"department,omitempty"`
	Designation string    `bson:"designation,omitempty" json:"designation,omitempty"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	Role        UserRole  `bson:"role,omitempty" json:"role"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UserProfile holds the mutable profile fields of a user.
type UserProfile struct {
	FullName    string
	Designation string
	Image       *string
	ID          *string
	Department  *string
	UserType    *string
}
