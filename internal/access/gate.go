package access

import (
	"campusboard/api/internal/apperr"
	"campusboard/api/internal/models"
)

func RequireAdmin(id Identity) error {
	if !id.IsAdmin() {
		return apperr.Forbidden("admin access required")
	}
	return nil
}

func RequireSuperadmin(id Identity) error {
	if !id.IsSuperadmin() {
		return apperr.Forbidden("superadmin access required")
	}
	return nil
}

// CanActOn reports whether id may read or modify the account keyed by
// targetEmail: the caller owns it, or is admin or above.
func CanActOn(id Identity, targetEmail string) bool {
	if id.Email != "" && id.Email == models.NormalizeEmail(targetEmail) {
		return true
	}
	return id.IsAdmin()
}

func RequireSelfOrAdmin(id Identity, targetEmail string) error {
	if !CanActOn(id, targetEmail) {
		return apperr.Forbidden("you can only access your own account")
	}
	return nil
}
