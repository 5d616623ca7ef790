package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"campusboard/api/internal/apperr"
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository/memstore"
	"campusboard/api/internal/security"
)

func newAuthService(t *testing.T) (*AuthService, *memstore.Store, *security.TokenCodec, *recordingPublisher) {
	t.Helper()
	store := memstore.New()
	codec := security.NewTokenCodec("test-secret", time.Hour).WithClock(func() time.Time { return fixedNow })
	pub := &recordingPublisher{}
	svc := NewAuthService(store.Users(), codec, pub, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store, codec, pub
}

func TestSignupNormalizesEmailAndForcesUserRole(t *testing.T) {
	svc, store, _, pub := newAuthService(t)

	user, err := svc.Signup(context.Background(), SignupInput{
		Email:      "  Ada@Example.EDU ",
		FullName:   "Ada Lovelace",
		Department: "CSE",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "ada@example.edu" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != models.UserRoleUser {
		t.Fatalf("expected user role, got %q", user.Role)
	}
	if !user.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected createdAt %v", user.CreatedAt)
	}

	stored, err := store.Users().FindByEmail(context.Background(), "ada@example.edu")
	if err != nil {
		t.Fatalf("find stored user: %v", err)
	}
	if stored.Department != "CSE" {
		t.Fatalf("unexpected stored department %q", stored.Department)
	}
	if types := pub.types(); len(types) != 1 || types[0] != "user.signedup" {
		t.Fatalf("unexpected activity %v", types)
	}
}

func TestSignupRejectsDuplicateEmailRegardlessOfCase(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "bob@example.edu", FullName: "Bob"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(ctx, SignupInput{Email: "BOB@example.edu", FullName: "Bob Again"})
	expectCode(t, err, apperr.CodeConflict)
}

func TestSignupRequiresEmailAndName(t *testing.T) {
	svc, _, _, _ := newAuthService(t)

	_, err := svc.Signup(context.Background(), SignupInput{FullName: "No Email"})
	expectCode(t, err, apperr.CodeValidation)
	_, err = svc.Signup(context.Background(), SignupInput{Email: "x@example.edu"})
	expectCode(t, err, apperr.CodeValidation)
}

func TestLoginIssuesTokenFromStoredRecord(t *testing.T) {
	svc, store, codec, _ := newAuthService(t)
	ctx := context.Background()
	if err := store.Users().Create(ctx, models.User{
		Email:      "admin@example.edu",
		FullName:   "Admin",
		Role:       models.UserRoleAdmin,
		Department: "EEE",
		CreatedAt:  fixedNow,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := svc.Login(ctx, LoginInput{UID: "firebase-uid", Email: "Admin@Example.edu", EmailVerified: true})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.TTL != time.Hour {
		t.Fatalf("unexpected ttl %v", result.TTL)
	}

	claims, err := codec.Verify(result.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.UID != "firebase-uid" || claims.Email != "admin@example.edu" {
		t.Fatalf("unexpected identity claims %+v", claims)
	}
	if claims.Role != "admin" || claims.Department != "EEE" || !claims.EmailVerified {
		t.Fatalf("unexpected role claims %+v", claims)
	}
}

func TestLoginRejectsUnverifiedEmail(t *testing.T) {
	svc, store, _, _ := newAuthService(t)
	seedUser(t, store, "user@example.edu", models.UserRoleUser)

	_, err := svc.Login(context.Background(), LoginInput{UID: "u1", Email: "user@example.edu"})
	expectCode(t, err, apperr.CodeForbidden)
}

func TestLoginUnknownUserIsNotFound(t *testing.T) {
	svc, _, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), LoginInput{UID: "u1", Email: "ghost@example.edu", EmailVerified: true})
	expectCode(t, err, apperr.CodeNotFound)
}
