package board

import (
	"sort"

	"github.com/Samuel-Rojas/Momentum/models"
)

const statsDeadlineLimit = 5

// Stats is the aggregate snapshot of the live collection shown by the
// stats command.
type Stats struct {
	TotalTasks           int                            `json:"totalTasks"`
	CompletedTasks       int                            `json:"completedTasks"`
	CompletionRate       float64                        `json:"completionRate"`
	PriorityDistribution map[models.TaskPriority]int    `json:"priorityDistribution"`
	CategoryDistribution map[string]int                 `json:"categoryDistribution"`
	AverageTasksPerDay   float64                        `json:"averageTasksPerDay"`
	UpcomingDeadlines    []models.Task                  `json:"upcomingDeadlines"`
}

// Stats computes the current aggregate snapshot.
func (b *Board) Stats() Stats {
	b.mu.Lock()
	tasks := b.snapshotLocked()
	b.mu.Unlock()

	st := Stats{
		TotalTasks:           len(tasks),
		PriorityDistribution: make(map[models.TaskPriority]int),
		CategoryDistribution: make(map[string]int),
	}

	var due []models.Task
	for _, t := range tasks {
		if t.Completed {
			st.CompletedTasks++
		}
		st.PriorityDistribution[t.Priority]++
		st.CategoryDistribution[t.Category]++
		if t.DueDate != nil && !t.Completed {
			due = append(due, t)
		}
	}

	if st.TotalTasks > 0 {
		st.CompletionRate = float64(st.CompletedTasks) / float64(st.TotalTasks) * 100
	}
	// Simple average over a 30-day window.
	st.AverageTasksPerDay = float64(st.TotalTasks) / 30

	sort.SliceStable(due, func(i, j int) bool { return due[i].DueDate.Before(*due[j].DueDate) })
	if len(due) > statsDeadlineLimit {
		due = due[:statsDeadlineLimit]
	}
	st.UpcomingDeadlines = due
	return st
}
