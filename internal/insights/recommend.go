package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Samuel-Rojas/Momentum/models"
)

// OptimalOrder stable-sorts tasks by the first index at which each task's
// category appears inside pattern.RecommendedTaskOrder (matched by
// substring containment). Unmatched tasks keep their relative order and
// sort after all matched tasks. A nil pattern returns tasks unchanged.
func OptimalOrder(tasks []models.Task, pattern *models.ProductivityPattern) []models.Task {
	ordered := make([]models.Task, len(tasks))
	copy(ordered, tasks)
	if pattern == nil {
		return ordered
	}

	rank := func(t models.Task) int {
		for i, key := range pattern.RecommendedTaskOrder {
			if strings.Contains(key, t.Category) {
				return i
			}
		}
		return len(pattern.RecommendedTaskOrder)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i]) < rank(ordered[j])
	})
	return ordered
}

// Durations above a day suggest decomposing; below an hour, rushing.
const (
	longTaskMinutes  = 24 * 60
	shortTaskMinutes = 60
)

// Recommendations translates a pattern into advisory sentences for the
// presentation layer. It returns nil for a nil pattern.
func Recommendations(pattern *models.ProductivityPattern) []string {
	if pattern == nil {
		return nil
	}

	var recs []string

	switch pattern.MostProductiveTimeOfDay {
	case models.Afternoon:
		recs = append(recs, "You tend to be most productive during work hours. Try to schedule important tasks during this time.")
	case models.Evening:
		recs = append(recs, "You're most productive in the evening. Consider adjusting your schedule to take advantage of this time.")
	default:
		recs = append(recs, "You're most productive in the early hours. Try to get important tasks done in the morning.")
	}

	switch pattern.MostProductiveDayOfWeek {
	case "Monday":
		recs = append(recs, "You're most productive on Mondays. Use this day to tackle your most challenging tasks.")
	case "Friday":
		recs = append(recs, "You tend to be most productive on Fridays. Consider saving important tasks for the end of the week.")
	default:
		recs = append(recs, fmt.Sprintf("You get the most done on %ss. Plan your heaviest work for that day.", pattern.MostProductiveDayOfWeek))
	}

	if pattern.AverageTaskDuration > longTaskMinutes {
		recs = append(recs, "Tasks take you more than a day to complete on average. Consider breaking them down into smaller, more manageable pieces.")
	} else if pattern.AverageTaskDuration < shortTaskMinutes {
		recs = append(recs, "You complete tasks quickly! Make sure you're not rushing through important tasks.")
	}

	if len(pattern.BestCategories) > 0 {
		recs = append(recs, fmt.Sprintf("You move fastest on %s tasks. Lead with those when energy is low.", pattern.BestCategories[0]))
	}

	return recs
}
