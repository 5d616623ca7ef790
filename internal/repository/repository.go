package repository

import (
	"context"
	"errors"
	"time"

	"campusboard/api/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrNoticeNotFound = errors.New("notice not found")
	ErrEventNotFound  = errors.New("event not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore persists user records keyed by normalized email.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, email string, profile models.UserProfile, at time.Time) (models.User, error)
	UpdateRole(ctx context.Context, email string, role models.UserRole, at time.Time) error
	Delete(ctx context.Context, email string) error
}

type NoticeStore interface {
	Create(ctx context.Context, notice models.Notice) error
	// Get returns the notice only when it also satisfies filter.
	Get(ctx context.Context, id string, filter NoticeFilter) (models.Notice, error)
	List(ctx context.Context, filter NoticeFilter) ([]models.Notice, error)
	// Update replaces every mutable field of the stored notice; CreatedAt is kept.
	Update(ctx context.Context, notice models.Notice) (models.Notice, error)
	Delete(ctx context.Context, id string) error
}

type EventStore interface {
	Create(ctx context.Context, event models.Event) error
	Get(ctx context.Context, id string) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, event models.Event) (models.Event, error)
	Delete(ctx context.Context, id string) error
}

// Backend is a document store holding the three collections.
type Backend interface {
	Users() UserStore
	Notices() NoticeStore
	Events() EventStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
