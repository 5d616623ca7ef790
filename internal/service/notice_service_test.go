package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"campusboard/api/internal/access"
	"campusboard/api/internal/apperr"
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository/memstore"
)

func newNoticeService() (*NoticeService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewNoticeService(memstore.New().Notices(), pub, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.newID = func() string {
		n++
		return "notice-" + string(rune('a'+n-1))
	}
	return svc, pub
}

func TestNoticeCreateRequiresAdmin(t *testing.T) {
	svc, _ := newNoticeService()

	_, err := svc.Create(context.Background(), identity("u@example.edu", models.UserRoleUser), NoticeInput{
		Title: "Exam", Category: "Academic", Description: "Finals",
	})
	expectCode(t, err, apperr.CodeForbidden)
}

func TestNoticeCreateDefaultsAudienceAndDate(t *testing.T) {
	svc, pub := newNoticeService()

	notice, err := svc.Create(context.Background(), identity("a@example.edu", models.UserRoleAdmin), NoticeInput{
		Title: " Exam ", Category: "Academic", Description: "Finals",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notice.ID != "notice-a" || notice.Title != "Exam" {
		t.Fatalf("unexpected notice %+v", notice)
	}
	if notice.TargetAudience != models.AudienceAll {
		t.Fatalf("expected default audience, got %q", notice.TargetAudience)
	}
	if notice.Date != "2026-03-14" {
		t.Fatalf("expected default date, got %q", notice.Date)
	}
	if types := pub.types(); len(types) != 1 || types[0] != "notice.created" {
		t.Fatalf("unexpected activity %v", types)
	}
}

func TestNoticeCreateValidatesFields(t *testing.T) {
	svc, _ := newNoticeService()

	_, err := svc.Create(context.Background(), identity("a@example.edu", models.UserRoleAdmin), NoticeInput{Title: "Only title"})
	expectCode(t, err, apperr.CodeValidation)
}

func TestNoticeListAndGetAreFilteredByVisibility(t *testing.T) {
	svc, _ := newNoticeService()
	ctx := context.Background()
	admin := identity("a@example.edu", models.UserRoleAdmin)

	mustCreate := func(in NoticeInput) models.Notice {
		t.Helper()
		n, err := svc.Create(ctx, admin, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return n
	}
	everyone := mustCreate(NoticeInput{Title: "Holiday", Category: "General", Description: "d", TargetAudience: "All"})
	faculty := mustCreate(NoticeInput{Title: "Staff meeting", Category: "Admin", Description: "d", TargetAudience: "Faculty"})
	cse := mustCreate(NoticeInput{Title: "Lab", Category: "Dept", Description: "d", TargetAudience: "Student", Department: "CSE"})

	student := access.Identity{Email: "s@example.edu", Role: models.UserRoleUser, UserType: "Student", Department: "CSE"}
	visible, err := svc.List(ctx, student)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible notices, got %d", len(visible))
	}
	for _, n := range visible {
		if n.ID == faculty.ID {
			t.Fatalf("student saw faculty notice")
		}
	}

	if _, err := svc.Get(ctx, student, cse.ID); err != nil {
		t.Fatalf("get own department notice: %v", err)
	}
	if _, err := svc.Get(ctx, student, everyone.ID); err != nil {
		t.Fatalf("get public notice: %v", err)
	}
	_, err = svc.Get(ctx, student, faculty.ID)
	expectCode(t, err, apperr.CodeNotFound)

	all, err := svc.List(ctx, admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin expected 3 notices, got %d", len(all))
	}
}

func TestNoticeUpdateAndDelete(t *testing.T) {
	svc, pub := newNoticeService()
	ctx := context.Background()
	admin := identity("a@example.edu", models.UserRoleAdmin)

	created, err := svc.Create(ctx, admin, NoticeInput{Title: "Old", Category: "c", Description: "d"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, admin, created.ID, NoticeInput{Title: "New", Category: "c", Description: "d", TargetAudience: "Faculty"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New" || updated.TargetAudience != "Faculty" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.Date != created.Date {
		t.Fatalf("blank date should keep %q, got %q", created.Date, updated.Date)
	}

	updated, err = svc.Update(ctx, admin, created.ID, NoticeInput{Title: "New", Category: "c", Description: "d", Date: "2026-04-01"})
	if err != nil {
		t.Fatalf("update with date: %v", err)
	}
	if updated.Date != "2026-04-01" {
		t.Fatalf("expected explicit date, got %q", updated.Date)
	}

	_, err = svc.Update(ctx, admin, "missing", NoticeInput{Title: "x", Category: "c", Description: "d"})
	expectCode(t, err, apperr.CodeNotFound)

	if err := svc.Delete(ctx, admin, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expectCode(t, svc.Delete(ctx, admin, created.ID), apperr.CodeNotFound)
	expectCode(t, svc.Delete(ctx, identity("u@example.edu", models.UserRoleUser), "any"), apperr.CodeForbidden)

	want := []string{"notice.created", "notice.updated", "notice.deleted"}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("unexpected activity %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("activity[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
