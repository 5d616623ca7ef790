// Package access turns a session token into a trusted Identity and answers
// authorization questions about it. Nothing here depends on HTTP.
package access

import (
	"campusboard/api/internal/models"
)

// Identity is the request-scoped view of the caller, built from a verified
// token and the live user record. It is never persisted.
type Identity struct {
	UID        string
	Email      string
	Role       models.UserRole
	Department string
	UserType   string
}

// IdentityFromUser builds an Identity from the stored record. The stored role
// is normalized here and nowhere else, so a record without a role resolves to
// the lowest one.
func IdentityFromUser(uid string, user models.User) Identity {
	return Identity{
		UID:        uid,
		Email:      models.NormalizeEmail(user.Email),
		Role:       models.NormalizeRole(string(user.Role)),
		Department: user.Department,
		UserType:   user.UserType,
	}
}

func (i Identity) IsAdmin() bool {
	return i.Role.AtLeast(models.UserRoleAdmin)
}

func (i Identity) IsSuperadmin() bool {
	return i.Role.AtLeast(models.UserRoleSuperAdmin)
}
