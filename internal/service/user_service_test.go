package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"campusboard/api/internal/apperr"
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
	"campusboard/api/internal/repository/memstore"
)

func newUserService() (*UserService, *memstore.Store, *recordingPublisher) {
	store := memstore.New()
	pub := &recordingPublisher{}
	svc := NewUserService(store.Users(), pub, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store, pub
}

func ptr(s string) *string { return &s }

func TestGetAllowsSelfAndAdminOnly(t *testing.T) {
	svc, store, _ := newUserService()
	ctx := context.Background()
	seedUser(t, store, "alice@example.edu", models.UserRoleUser)
	seedUser(t, store, "bob@example.edu", models.UserRoleUser)

	if _, err := svc.Get(ctx, identity("alice@example.edu", models.UserRoleUser), "ALICE@example.edu"); err != nil {
		t.Fatalf("self read: %v", err)
	}
	_, err := svc.Get(ctx, identity("alice@example.edu", models.UserRoleUser), "bob@example.edu")
	expectCode(t, err, apperr.CodeForbidden)

	if _, err := svc.Get(ctx, identity("root@example.edu", models.UserRoleAdmin), "bob@example.edu"); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	_, err = svc.Get(ctx, identity("root@example.edu", models.UserRoleAdmin), "ghost@example.edu")
	expectCode(t, err, apperr.CodeNotFound)
}

func TestUpdateProfileRequiresNameAndDesignation(t *testing.T) {
	svc, store, _ := newUserService()
	seedUser(t, store, "alice@example.edu", models.UserRoleUser)
	caller := identity("alice@example.edu", models.UserRoleUser)

	_, err := svc.UpdateProfile(context.Background(), caller, "alice@example.edu", ProfileInput{FullName: "Alice"})
	expectCode(t, err, apperr.CodeValidation)
}

func TestUpdateProfileDropsDepartmentForNonAdmins(t *testing.T) {
	svc, store, _ := newUserService()
	ctx := context.Background()
	seedUser(t, store, "alice@example.edu", models.UserRoleUser)

	updated, err := svc.UpdateProfile(ctx, identity("alice@example.edu", models.UserRoleUser), "alice@example.edu", ProfileInput{
		FullName:    "Alice A.",
		Designation: "Student",
		Image:       ptr("https://img.example/a.png"),
		Department:  ptr("Physics"),
		UserType:    ptr("Faculty"),
	})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.FullName != "Alice A." || updated.Designation != "Student" || updated.Image != "https://img.example/a.png" {
		t.Fatalf("profile not applied: %+v", updated)
	}
	if updated.Department != "" || updated.UserType != "" {
		t.Fatalf("non-admin changed visibility fields: %+v", updated)
	}

	updated, err = svc.UpdateProfile(ctx, identity("root@example.edu", models.UserRoleAdmin), "alice@example.edu", ProfileInput{
		FullName:    "Alice A.",
		Designation: "Student",
		Department:  ptr("Physics"),
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Department != "Physics" {
		t.Fatalf("admin department change not applied: %+v", updated)
	}
}

func TestUpdateProfileOfAnotherUserIsForbidden(t *testing.T) {
	svc, store, _ := newUserService()
	seedUser(t, store, "bob@example.edu", models.UserRoleUser)

	_, err := svc.UpdateProfile(context.Background(), identity("alice@example.edu", models.UserRoleUser), "bob@example.edu", ProfileInput{
		FullName:    "Hacked",
		Designation: "Nobody",
	})
	expectCode(t, err, apperr.CodeForbidden)
}

func TestPromote(t *testing.T) {
	svc, store, pub := newUserService()
	ctx := context.Background()
	seedUser(t, store, "user@example.edu", models.UserRoleUser)
	seedUser(t, store, "admin@example.edu", models.UserRoleAdmin)
	seedUser(t, store, "super@example.edu", models.UserRoleSuperAdmin)
	super := identity("super@example.edu", models.UserRoleSuperAdmin)

	_, err := svc.Promote(ctx, identity("admin@example.edu", models.UserRoleAdmin), "user@example.edu")
	expectCode(t, err, apperr.CodeForbidden)

	promoted, err := svc.Promote(ctx, super, "user@example.edu")
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != models.UserRoleAdmin {
		t.Fatalf("expected admin, got %q", promoted.Role)
	}
	stored, _ := store.Users().FindByEmail(ctx, "user@example.edu")
	if stored.Role != models.UserRoleAdmin {
		t.Fatalf("role not persisted: %q", stored.Role)
	}

	_, err = svc.Promote(ctx, super, "admin@example.edu")
	expectCode(t, err, apperr.CodeConflict)
	_, err = svc.Promote(ctx, super, "super@example.edu")
	expectCode(t, err, apperr.CodeConflict)
	_, err = svc.Promote(ctx, super, "ghost@example.edu")
	expectCode(t, err, apperr.CodeNotFound)

	if types := pub.types(); len(types) != 1 || types[0] != "user.promoted" {
		t.Fatalf("unexpected activity %v", types)
	}
}

func TestDemote(t *testing.T) {
	svc, store, _ := newUserService()
	ctx := context.Background()
	seedUser(t, store, "user@example.edu", models.UserRoleUser)
	seedUser(t, store, "admin@example.edu", models.UserRoleAdmin)
	seedUser(t, store, "super@example.edu", models.UserRoleSuperAdmin)
	seedUser(t, store, "other-super@example.edu", models.UserRoleSuperAdmin)
	super := identity("super@example.edu", models.UserRoleSuperAdmin)

	demoted, err := svc.Demote(ctx, super, "admin@example.edu")
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if demoted.Role != models.UserRoleUser {
		t.Fatalf("expected user, got %q", demoted.Role)
	}

	_, err = svc.Demote(ctx, super, "user@example.edu")
	expectCode(t, err, apperr.CodeConflict)
	_, err = svc.Demote(ctx, super, "other-super@example.edu")
	expectCode(t, err, apperr.CodeForbidden)
	_, err = svc.Demote(ctx, super, "super@example.edu")
	expectCode(t, err, apperr.CodeForbidden)
}

func TestDeleteRefusesSuperadminTargets(t *testing.T) {
	svc, store, pub := newUserService()
	ctx := context.Background()
	seedUser(t, store, "user@example.edu", models.UserRoleUser)
	seedUser(t, store, "super@example.edu", models.UserRoleSuperAdmin)
	admin := identity("admin@example.edu", models.UserRoleAdmin)

	err := svc.Delete(ctx, identity("user@example.edu", models.UserRoleUser), "user@example.edu")
	expectCode(t, err, apperr.CodeForbidden)

	err = svc.Delete(ctx, admin, "super@example.edu")
	expectCode(t, err, apperr.CodeForbidden)
	err = svc.Delete(ctx, identity("super@example.edu", models.UserRoleSuperAdmin), "super@example.edu")
	expectCode(t, err, apperr.CodeForbidden)

	if err := svc.Delete(ctx, admin, "user@example.edu"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Users().FindByEmail(ctx, "user@example.edu"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
	err = svc.Delete(ctx, admin, "user@example.edu")
	expectCode(t, err, apperr.CodeNotFound)

	if types := pub.types(); len(types) != 1 || types[0] != "user.deleted" {
		t.Fatalf("unexpected activity %v", types)
	}
}

func TestStoredRoleWithoutValueActsAsUser(t *testing.T) {
	svc, store, _ := newUserService()
	seedUser(t, store, "legacy@example.edu", "")

	_, err := svc.Demote(context.Background(), identity("super@example.edu", models.UserRoleSuperAdmin), "legacy@example.edu")
	expectCode(t, err, apperr.CodeConflict)
}
