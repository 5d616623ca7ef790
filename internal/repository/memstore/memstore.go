// Package memstore is an in-process Backend used by tests and local runs
// without a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	notices map[string]models.Notice
	events  map[string]models.Event
}

func New() *Store {
	return &Store{
		users:   make(map[string]models.User),
		notices: make(map[string]models.Notice),
		events:  make(map[string]models.Event),
	}
}

func (s *Store) Users() repository.UserStore     { return userStore{s} }
func (s *Store) Notices() repository.NoticeStore { return noticeStore{s} }
func (s *Store) Events() repository.EventStore   { return eventStore{s} }

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

type userStore struct{ s *Store }

func (u userStore) Create(_ context.Context, user models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.s.users[user.Email] = user
	return nil
}

func (u userStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (u userStore) List(context.Context) ([]models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	users := make([]models.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		users = append(users, user)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (u userStore) UpdateProfile(_ context.Context, email string, profile models.UserProfile, at time.Time) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	user.FullName = profile.FullName
	user.Designation = profile.Designation
	if profile.Image != nil {
		user.Image = *profile.Image
	}
	if profile.ID != nil {
		user.ID = *profile.ID
	}
	if profile.Department != nil {
		user.Department = *profile.Department
	}
	if profile.UserType != nil {
		user.UserType = *profile.UserType
	}
	user.UpdatedAt = at
	u.s.users[email] = user
	return user, nil
}

func (u userStore) UpdateRole(_ context.Context, email string, role models.UserRole, at time.Time) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[email]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Role = role
	user.UpdatedAt = at
	u.s.users[email] = user
	return nil
}

func (u userStore) Delete(_ context.Context, email string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[email]; !ok {
		return repository.ErrUserNotFound
	}
	delete(u.s.users, email)
	return nil
}

type noticeStore struct{ s *Store }

func (n noticeStore) Create(_ context.Context, notice models.Notice) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	n.s.notices[notice.ID] = notice
	return nil
}

func (n noticeStore) Get(_ context.Context, id string, filter repository.NoticeFilter) (models.Notice, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()
	notice, ok := n.s.notices[id]
	if !ok || !filter.Matches(notice) {
		return models.Notice{}, repository.ErrNoticeNotFound
	}
	return notice, nil
}

func (n noticeStore) List(_ context.Context, filter repository.NoticeFilter) ([]models.Notice, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()
	notices := make([]models.Notice, 0, len(n.s.notices))
	for _, notice := range n.s.notices {
		if filter.Matches(notice) {
			notices = append(notices, notice)
		}
	}
	sort.SliceStable(notices, func(i, j int) bool {
		if notices[i].Date != notices[j].Date {
			return notices[i].Date > notices[j].Date
		}
		return notices[i].CreatedAt.After(notices[j].CreatedAt)
	})
	return notices, nil
}

func (n noticeStore) Update(_ context.Context, notice models.Notice) (models.Notice, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	existing, ok := n.s.notices[notice.ID]
	if !ok {
		return models.Notice{}, repository.ErrNoticeNotFound
	}
	notice.CreatedAt = existing.CreatedAt
	n.s.notices[notice.ID] = notice
	return notice, nil
}

func (n noticeStore) Delete(_ context.Context, id string) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	if _, ok := n.s.notices[id]; !ok {
		return repository.ErrNoticeNotFound
	}
	delete(n.s.notices, id)
	return nil
}

type eventStore struct{ s *Store }

func (e eventStore) Create(_ context.Context, event models.Event) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	e.s.events[event.ID] = event
	return nil
}

func (e eventStore) Get(_ context.Context, id string) (models.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	event, ok := e.s.events[id]
	if !ok {
		return models.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

func (e eventStore) List(context.Context) ([]models.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	events := make([]models.Event, 0, len(e.s.events))
	for _, event := range e.s.events {
		events = append(events, event)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (e eventStore) Update(_ context.Context, event models.Event) (models.Event, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	existing, ok := e.s.events[event.ID]
	if !ok {
		return models.Event{}, repository.ErrEventNotFound
	}
	event.CreatedAt = existing.CreatedAt
	e.s.events[event.ID] = event
	return event, nil
}

func (e eventStore) Delete(_ context.Context, id string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if _, ok := e.s.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(e.s.events, id)
	return nil
}
