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
	"campusboard/api/internal/ids"
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
)

type EventService struct {
	events   repository.EventStore
	activity activity.Publisher
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewEventService(events repository.EventStore, publisher activity.Publisher, log zerolog.Logger) *EventService {
	return &EventService{
		events:   events,
		activity: publisher,
		log:      log,
		now:      utcNow,
		newID:    ids.New,
	}
}

type EventInput struct {
	Name    string
	Date    string
	Time    string
	Venue   string
	Details string
	Image   string
}

func (in EventInput) validate() error {
	return requireFields(
		field{"name", in.Name},
		field{"date", in.Date},
	)
}

func (in EventInput) apply(e *models.Event) {
	e.Name = strings.TrimSpace(in.Name)
	e.Date = strings.TrimSpace(in.Date)
	e.Time = strings.TrimSpace(in.Time)
	e.Venue = strings.TrimSpace(in.Venue)
	e.Details = strings.TrimSpace(in.Details)
	e.Image = strings.TrimSpace(in.Image)
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list events", err)
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id string) (models.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		return models.Event{}, eventError("get event", err)
	}
	return event, nil
}

func (s *EventService) Create(ctx context.Context, caller access.Identity, input EventInput) (models.Event, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Event{}, err
	}
	if err := input.validate(); err != nil {
		return models.Event{}, err
	}

	now := s.now()
	event := models.Event{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	input.apply(&event)

	if err := s.events.Create(ctx, event); err != nil {
		return models.Event{}, apperr.Internal("create event", err)
	}
	s.activity.Publish(ctx, activity.Entry{Type: activity.EventCreated, ID: event.ID, Actor: caller.Email, At: now})
	return event, nil
}

func (s *EventService) Update(ctx context.Context, caller access.Identity, id string, input EventInput) (models.Event, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Event{}, err
	}
	if err := input.validate(); err != nil {
		return models.Event{}, err
	}

	now := s.now()
	event := models.Event{ID: id, UpdatedAt: now}
	input.apply(&event)

	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return models.Event{}, eventError("update event", err)
	}
	s.activity.Publish(ctx, activity.Entry{Type: activity.EventUpdated, ID: id, Actor: caller.Email, At: now})
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, caller access.Identity, id string) error {
	if err := access.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return eventError("delete event", err)
	}
	s.activity.Publish(ctx, activity.Entry{Type: activity.EventDeleted, ID: id, Actor: caller.Email, At: s.now()})
	return nil
}

func eventError(op string, err error) error {
	if errors.Is(err, repository.ErrEventNotFound) {
		return apperr.NotFound("event not found")
	}
	return apperr.Internal(op, err)
}
