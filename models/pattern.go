package models

import "time"

// TimeOfDay buckets the hours of a day into the four windows the
// analytics engine reasons about.
type TimeOfDay string

const (
	Morning   TimeOfDay = "Morning"   // 05:00-11:59
	Afternoon TimeOfDay = "Afternoon" // 12:00-16:59
	Evening   TimeOfDay = "Evening"   // 17:00-21:59
	Night     TimeOfDay = "Night"     // 22:00-04:59
)

// TimeOfDayOrder is the fixed enumeration order used for frequency
// tie-breaking: the first enumerated bucket wins.
var TimeOfDayOrder = []TimeOfDay{Morning, Afternoon, Evening, Night}

// TimeOfDayOf returns the bucket containing t's local hour.
func TimeOfDayOf(t time.Time) TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}

// ProductivitySample is one observation derived from a single completion
// event. Samples are append-only: re-completing a task after un-completing
// it produces a new, additional sample.
type ProductivitySample struct {
	TimeOfDay TimeOfDay    `json:"timeOfDay"`
	DayOfWeek string       `json:"dayOfWeek"`
	Category  string       `json:"category"`
	Priority  TaskPriority `json:"priority"`
	// CompletionDurationMinutes is completedAt - createdAt floored to
	// whole minutes, clamped to zero. Never negative.
	CompletionDurationMinutes int `json:"completionDurationMinutes"`
}

// ProductivityPattern is the aggregate insight recomputed from the full
// sample set. It has no independent lifecycle; it is a pure function of
// the sample multiset, cached for read efficiency.
type ProductivityPattern struct {
	MostProductiveTimeOfDay TimeOfDay `json:"mostProductiveTimeOfDay"`
	MostProductiveDayOfWeek string    `json:"mostProductiveDayOfWeek"`
	// BestCategories ranks categories by ascending mean completion
	// duration: lower mean ranks as more efficient.
	BestCategories      []string `json:"bestCategories"`
	AverageTaskDuration float64  `json:"averageTaskDuration"`
	// RecommendedTaskOrder holds "<bucket>-<category>" keys for the single
	// most productive bucket crossed with each known category, in
	// BestCategories order.
	RecommendedTaskOrder []string `json:"recommendedTaskOrder"`
}
