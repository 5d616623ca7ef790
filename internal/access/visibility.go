package access

import (
	"campusboard/api/internal/models"
	"campusboard/api/internal/repository"
)

// NoticeVisibility returns the filter for the notices id may read. Admins see
// everything; anyone else sees notices aimed at all users or at their user
// type, plus every notice of their own department.
func NoticeVisibility(id Identity) repository.NoticeFilter {
	if id.IsAdmin() {
		return repository.AllNotices
	}

	filter := repository.NoticeFilter{
		Audiences: []string{models.AudienceAll},
	}
	if id.UserType != "" && id.UserType != models.AudienceAll {
		filter.Audiences = append(filter.Audiences, id.UserType)
	}
	if id.Department != "" {
		filter.Departments = []string{id.Department}
	}
	return filter
}
