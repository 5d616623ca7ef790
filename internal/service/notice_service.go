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

type NoticeService struct {
	notices  repository.NoticeStore
	activity activity.Publisher
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewNoticeService(notices repository.NoticeStore, publisher activity.Publisher, log zerolog.Logger) *NoticeService {
	return &NoticeService{
		notices:  notices,
		activity: publisher,
		log:      log,
		now:      utcNow,
		newID:    ids.New,
	}
}

type NoticeInput struct {
	Title          string
	Category       string
	Description    string
	Image          string
	Date           string
	TargetAudience string
	Department     string
}

func (in NoticeInput) validate() error {
	return requireFields(
		field{"title", in.Title},
		field{"category", in.Category},
		field{"description", in.Description},
	)
}

// apply copies the input onto n. A blank audience addresses everyone.
func (in NoticeInput) apply(n *models.Notice) {
	n.Title = strings.TrimSpace(in.Title)
	n.Category = strings.TrimSpace(in.Category)
	n.Description = strings.TrimSpace(in.Description)
	n.Image = strings.TrimSpace(in.Image)
	n.Date = strings.TrimSpace(in.Date)
	n.TargetAudience = strings.TrimSpace(in.TargetAudience)
	if n.TargetAudience == "" {
		n.TargetAudience = models.AudienceAll
	}
	n.Department = strings.TrimSpace(in.Department)
}

// List returns the notices visible to caller.
func (s *NoticeService) List(ctx context.Context, caller access.Identity) ([]models.Notice, error) {
	notices, err := s.notices.List(ctx, access.NoticeVisibility(caller))
	if err != nil {
		return nil, apperr.Internal("list notices", err)
	}
	return notices, nil
}

// Get returns a notice only if caller could list it; otherwise it does not exist.
func (s *NoticeService) Get(ctx context.Context, caller access.Identity, id string) (models.Notice, error) {
	notice, err := s.notices.Get(ctx, id, access.NoticeVisibility(caller))
	if err != nil {
		return models.Notice{}, noticeError("get notice", err)
	}
	return notice, nil
}

func (s *NoticeService) Create(ctx context.Context, caller access.Identity, input NoticeInput) (models.Notice, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Notice{}, err
	}
	if err := input.validate(); err != nil {
		return models.Notice{}, err
	}

	now := s.now()
	notice := models.Notice{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	input.apply(&notice)
	if notice.Date == "" {
		notice.Date = now.Format(time.DateOnly)
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		return models.Notice{}, apperr.Internal("create notice", err)
	}
	s.publish(ctx, activity.NoticeCreated, notice.ID, caller, now)
	return notice, nil
}

func (s *NoticeService) Update(ctx context.Context, caller access.Identity, id string, input NoticeInput) (models.Notice, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Notice{}, err
	}
	if err := input.validate(); err != nil {
		return models.Notice{}, err
	}

	now := s.now()
	notice := models.Notice{ID: id, UpdatedAt: now}
	input.apply(&notice)
	if notice.Date == "" {
		stored, err := s.notices.Get(ctx, id, repository.AllNotices)
		if err != nil {
			return models.Notice{}, noticeError("update notice", err)
		}
		notice.Date = stored.Date
	}

	updated, err := s.notices.Update(ctx, notice)
	if err != nil {
		return models.Notice{}, noticeError("update notice", err)
	}
	s.publish(ctx, activity.NoticeUpdated, id, caller, now)
	return updated, nil
}

func (s *NoticeService) Delete(ctx context.Context, caller access.Identity, id string) error {
	if err := access.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		return noticeError("delete notice", err)
	}
	s.publish(ctx, activity.NoticeDeleted, id, caller, s.now())
	return nil
}

func (s *NoticeService) publish(ctx context.Context, entryType, id string, caller access.Identity, at time.Time) {
	s.activity.Publish(ctx, activity.Entry{Type: entryType, ID: id, Actor: caller.Email, At: at})
}

func noticeError(op string, err error) error {
	if errors.Is(err, repository.ErrNoticeNotFound) {
		return apperr.NotFound("notice not found")
	}
	return apperr.Internal(op, err)
}
