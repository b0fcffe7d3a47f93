package board

import (
	"sort"
	"strings"
	"time"

	"github.com/Samuel-Rojas/Momentum/models"
)

// SortKey selects the field the visible view is ordered by.
type SortKey string

const (
	// SortManual orders by the dense Order field, i.e. the user's
	// drag-to-reorder sequence. This is the default.
	SortManual   SortKey = "manual"
	SortDate     SortKey = "date"
	SortPriority SortKey = "priority"
	SortCategory SortKey = "category"
	SortTitle    SortKey = "title"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Filters narrows the visible view. All populated filters are
// conjunctive: a task must match every one of them.
type Filters struct {
	// Search matches a case-insensitive substring over title,
	// description, category, and tags.
	Search string
	// Priorities keeps tasks whose priority is in the set.
	Priorities []models.TaskPriority
	// Categories keeps tasks whose category is in the set.
	Categories []string
	// Completed filters by completion state when non-nil.
	Completed *bool
	// DueAfter / DueBefore bound the due date. Tasks without a due date
	// fail a populated range filter.
	DueAfter  *time.Time
	DueBefore *time.Time
	// Tags keeps tasks carrying every listed tag.
	Tags []string
}

// Match reports whether t passes every populated filter.
func (f Filters) Match(t models.Task) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.Category), q)
		if !hit {
			for _, tag := range t.Tags {
				if strings.Contains(strings.ToLower(tag), q) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}
	if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
		return false
	}
	if len(f.Categories) > 0 && !containsString(f.Categories, t.Category) {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.DueAfter != nil || f.DueBefore != nil {
		if t.DueDate == nil {
			return false
		}
		if f.DueAfter != nil && t.DueDate.Before(*f.DueAfter) {
			return false
		}
		if f.DueBefore != nil && t.DueDate.After(*f.DueBefore) {
			return false
		}
	}
	for _, tag := range f.Tags {
		if !containsString(t.Tags, tag) {
			return false
		}
	}
	return true
}

func containsPriority(set []models.TaskPriority, p models.TaskPriority) bool {
	for _, candidate := range set {
		if candidate == p {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

// sortTasks orders tasks in place by key and direction, breaking ties by
// the manual Order field.
func sortTasks(tasks []models.Task, key SortKey, dir SortDirection) {
	less := func(a, b models.Task) int {
		switch key {
		case SortDate:
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				return -1
			case a.CreatedAt.After(b.CreatedAt):
				return 1
			}
			return 0
		case SortPriority:
			return a.Priority.Rank() - b.Priority.Rank()
		case SortCategory:
			return strings.Compare(a.Category, b.Category)
		case SortTitle:
			return strings.Compare(a.Title, b.Title)
		default:
			return a.Order - b.Order
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		cmp := less(tasks[i], tasks[j])
		if dir == Descending {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		return tasks[i].Order < tasks[j].Order
	})
}
