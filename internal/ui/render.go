// Package ui renders board state for the terminal.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Samuel-Rojas/Momentum/internal/board"
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	metaStyle    = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	adviceStyle  = lipgloss.NewStyle().PaddingLeft(2)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func priorityStyle(p models.TaskPriority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return highStyle
	case models.PriorityLow:
		return lowStyle
	default:
		return mediumStyle
	}
}

// terminalWidth returns the current terminal width, or a sane default
// when stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 80
}

// truncate shortens s to at most max runes. Cutting on runes, not
// bytes, keeps multi-byte titles intact.
func truncate(s string, max int) string {
	if max < 4 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// RenderTaskList formats the visible tasks, one row per task, with the
// visible index shown so reorder positions are addressable.
func RenderTaskList(tasks []models.Task) string {
	if len(tasks) == 0 {
		return metaStyle.Render("No tasks. Add one with: momentum add \"Your task\"")
	}

	width := terminalWidth()
	var sb strings.Builder
	for i, t := range tasks {
		check := "[ ]"
		title := titleStyle.Render(t.Title)
		if t.Completed {
			check = "[x]"
			title = doneStyle.Render(t.Title)
		}

		meta := fmt.Sprintf("%s · %s", priorityStyle(t.Priority).Render(string(t.Priority)), t.Category)
		if t.DueDate != nil {
			meta += " · due " + t.DueDate.Format("2006-01-02")
		}
		if len(t.Tags) > 0 {
			meta += " · #" + strings.Join(t.Tags, " #")
		}

		sb.WriteString(fmt.Sprintf("%3d %s %s\n", i, check, truncate(title, width-10)))
		sb.WriteString("      " + metaStyle.Render(meta) + "\n")
		sb.WriteString("      " + metaStyle.Render("id: "+t.ID) + "\n")
	}
	return sb.String()
}

// RenderInsights formats the derived pattern, the advisory strings, and
// the recommended ordering of the given tasks.
func RenderInsights(pattern *models.ProductivityPattern, recommendations []string, ordered []models.Task) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Productivity Insights") + "\n\n")
	sb.WriteString(fmt.Sprintf("Most productive time of day: %s\n", titleStyle.Render(string(pattern.MostProductiveTimeOfDay))))
	sb.WriteString(fmt.Sprintf("Most productive day of week: %s\n", titleStyle.Render(pattern.MostProductiveDayOfWeek)))
	sb.WriteString(fmt.Sprintf("Average task duration: %s\n", titleStyle.Render(formatMinutes(pattern.AverageTaskDuration))))

	if len(pattern.BestCategories) > 0 {
		sb.WriteString(sectionStyle.Render("Categories by efficiency") + "\n")
		for i, c := range pattern.BestCategories {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, c))
		}
	}

	if len(recommendations) > 0 {
		sb.WriteString(sectionStyle.Render("Recommendations") + "\n")
		for _, r := range recommendations {
			sb.WriteString(adviceStyle.Render("• "+r) + "\n")
		}
	}

	if len(ordered) > 0 {
		sb.WriteString(sectionStyle.Render("Suggested task order") + "\n")
		for i, t := range ordered {
			sb.WriteString(fmt.Sprintf("  %d. %s (%s)\n", i+1, t.Title, t.Category))
		}
	}
	return sb.String()
}

// RenderStats formats the aggregate board snapshot.
func RenderStats(st board.Stats) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Board Stats") + "\n\n")
	sb.WriteString(fmt.Sprintf("Tasks: %d total, %d completed (%.1f%%)\n", st.TotalTasks, st.CompletedTasks, st.CompletionRate))
	sb.WriteString(fmt.Sprintf("Average tasks per day: %.2f\n", st.AverageTasksPerDay))

	if len(st.PriorityDistribution) > 0 {
		sb.WriteString(sectionStyle.Render("By priority") + "\n")
		for _, p := range []models.TaskPriority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
			if n, ok := st.PriorityDistribution[p]; ok {
				sb.WriteString(fmt.Sprintf("  %s: %d\n", priorityStyle(p).Render(string(p)), n))
			}
		}
	}
	if len(st.CategoryDistribution) > 0 {
		sb.WriteString(sectionStyle.Render("By category") + "\n")
		for c, n := range st.CategoryDistribution {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", c, n))
		}
	}
	if len(st.UpcomingDeadlines) > 0 {
		sb.WriteString(sectionStyle.Render("Upcoming deadlines") + "\n")
		for _, t := range st.UpcomingDeadlines {
			sb.WriteString(fmt.Sprintf("  %s — %s\n", t.DueDate.Format("2006-01-02"), t.Title))
		}
	}
	return sb.String()
}

func formatMinutes(minutes float64) string {
	d := time.Duration(minutes * float64(time.Minute))
	if d < time.Hour {
		return fmt.Sprintf("%.0f min", minutes)
	}
	return fmt.Sprintf("%.1f h", d.Hours())
}
