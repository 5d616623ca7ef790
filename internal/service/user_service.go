package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"campusboard/api/internal/access"
	"campusboard/api/internal/activity"
	"campusboard/api/internal/apperr"
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
)

type UserService struct {
	users    repository.UserStore
	activity activity.Publisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewUserService(users repository.UserStore, publisher activity.Publisher, log zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		activity: publisher,
		log:      log,
		now:      utcNow,
	}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	return users, nil
}

// Get returns the account keyed by email when the caller owns it or is an admin.
func (s *UserService) Get(ctx context.Context, caller access.Identity, email string) (models.User, error) {
	if err := access.RequireSelfOrAdmin(caller, email); err != nil {
		return models.User{}, err
	}
	return s.find(ctx, email)
}

type ProfileInput struct {
	FullName    string
	Designation string
	Image       *string
	ID          *string
	Department  *string
	UserType    *string
}

// UpdateProfile rewrites the mutable profile of the account keyed by email.
// Department and user type drive notice visibility, so they are only taken
// from admin callers and silently dropped otherwise.
func (s *UserService) UpdateProfile(ctx context.Context, caller access.Identity, email string, input ProfileInput) (models.User, error) {
	if err := access.RequireSelfOrAdmin(caller, email); err != nil {
		return models.User{}, err
	}
	if err := requireFields(
		field{"fullName", input.FullName},
		field{"designation", input.Designation},
	); err != nil {
		return models.User{}, err
	}

	profile := models.UserProfile{
		FullName:    strings.TrimSpace(input.FullName),
		Designation: strings.TrimSpace(input.Designation),
		Image:       trimmed(input.Image),
		ID:          trimmed(input.ID),
	}
	if caller.IsAdmin() {
		profile.Department = trimmed(input.Department)
		profile.UserType = trimmed(input.UserType)
	}

	user, err := s.users.UpdateProfile(ctx, models.NormalizeEmail(email), profile, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.NotFound("user not found")
		}
		return models.User{}, apperr.Internal("update user", err)
	}
	return user, nil
}

// Promote raises a user to admin. Targets already at admin or above are a
// no-op and rejected as a conflict.
func (s *UserService) Promote(ctx context.Context, caller access.Identity, email string) (models.User, error) {
	if err := access.RequireSuperadmin(caller); err != nil {
		return models.User{}, err
	}
	target, err := s.find(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if models.NormalizeRole(string(target.Role)).AtLeast(models.UserRoleAdmin) {
		return models.User{}, apperr.Conflict("user is already an admin")
	}
	return s.setRole(ctx, caller, target, models.UserRoleAdmin, activity.UserPromoted)
}

// Demote returns an admin to user. Superadmin accounts cannot be demoted by
// anyone.
func (s *UserService) Demote(ctx context.Context, caller access.Identity, email string) (models.User, error) {
	if err := access.RequireSuperadmin(caller); err != nil {
		return models.User{}, err
	}
	target, err := s.find(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	switch models.NormalizeRole(string(target.Role)) {
	case models.UserRoleSuperAdmin:
		return models.User{}, apperr.Forbidden("superadmin accounts cannot be demoted")
	case models.UserRoleUser:
		return models.User{}, apperr.Conflict("user is not an admin")
	}
	return s.setRole(ctx, caller, target, models.UserRoleUser, activity.UserDemoted)
}

// Delete removes an account. Superadmin accounts cannot be deleted by anyone.
func (s *UserService) Delete(ctx context.Context, caller access.Identity, email string) error {
	if err := access.RequireAdmin(caller); err != nil {
		return err
	}
	target, err := s.find(ctx, email)
	if err != nil {
		return err
	}
	if models.NormalizeRole(string(target.Role)) == models.UserRoleSuperAdmin {
		return apperr.Forbidden("superadmin accounts cannot be deleted")
	}

	if err := s.users.Delete(ctx, target.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("delete user", err)
	}

	s.activity.Publish(ctx, activity.Entry{
		Type:  activity.UserDeleted,
		ID:    target.Email,
		Actor: caller.Email,
		At:    s.now(),
	})
	s.log.Info().Str("target", target.Email).Str("actor", caller.Email).Msg("user deleted")
	return nil
}

func (s *UserService) setRole(ctx context.Context, caller access.Identity, target models.User, role models.UserRole, entryType string) (models.User, error) {
	at := s.now()
	if err := s.users.UpdateRole(ctx, target.Email, role, at); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.NotFound("user not found")
		}
		return models.User{}, apperr.Internal("update role", err)
	}
	target.Role = role
	target.UpdatedAt = at

	s.activity.Publish(ctx, activity.Entry{
		Type:  entryType,
		ID:    target.Email,
		Actor: caller.Email,
		At:    at,
	})
	s.log.Info().Str("target", target.Email).Str("role", string(role)).Str("actor", caller.Email).Msg("role changed")
	return target, nil
}

func (s *UserService) find(ctx context.Context, email string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.NotFound("user not found")
		}
		return models.User{}, apperr.Internal("find user", err)
	}
	return user, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
