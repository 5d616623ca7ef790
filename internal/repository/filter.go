package repository

import (
	"slices"

	"campusboard/api/internal/models"
)

// NoticeFilter selects the notices a caller may read. A restricted filter
// matches a notice whose targetAudience is one of Audiences or whose
// department is one of Departments. Each backend renders it into its own
// query language.
type NoticeFilter struct {
	Unrestricted bool
	Audiences    []string
	Departments  []string
}

// AllNotices matches every notice.
var AllNotices = NoticeFilter{Unrestricted: true}

// Matches evaluates the filter against a single notice.
func (f NoticeFilter) Matches(n models.Notice) bool {
	if f.Unrestricted {
		return true
	}
	return slices.Contains(f.Audiences, n.TargetAudience) ||
		slices.Contains(f.Departments, n.Department)
}
