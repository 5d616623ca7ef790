package repository

import (
	"testing"

	"campusboard/api/internal/models"
)

func TestNoticeFilterMatches(t *testing.T) {
	notice := models.Notice{TargetAudience: "faculty", Department: "CSE"}

	cases := []struct {
		name   string
		filter NoticeFilter
		want   bool
	}{
		{"unrestricted", AllNotices, true},
		{"audience match", NoticeFilter{Audiences: []string{"All", "faculty"}}, true},
		{"department match", NoticeFilter{Audiences: []string{"All", "student"}, Departments: []string{"CSE"}}, true},
		{"neither", NoticeFilter{Audiences: []string{"All", "student"}, Departments: []string{"EEE"}}, false},
		{"empty restricted filter", NoticeFilter{}, false},
	}
	for _, tc := range cases {
		if got := tc.filter.Matches(notice); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
