package cmd

import (
	"fmt"

	"github.com/Samuel-Rojas/Momentum/internal/board"
	"github.com/Samuel-Rojas/Momentum/internal/ui"
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/spf13/cobra"
)

var (
	listSearch     string
	listPriorities []string
	listCategories []string
	listStatus     string
	listDueAfter   string
	listDueBefore  string
	listTags       []string
	listSortKey    string
	listDesc       bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in the current view",
	Long: `List tasks after applying filters and sorting. All filters are
conjunctive: a task must match every one you pass.

Examples:
  momentum list
  momentum list --status pending --priority high --sort date --desc
  momentum list --search report --category Work --tag q3`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "substring search over title, description, category and tags")
	listCmd.Flags().StringSliceVar(&listPriorities, "priority", nil, "filter by priorities (low, medium, high)")
	listCmd.Flags().StringSliceVar(&listCategories, "category", nil, "filter by categories")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending or completed)")
	listCmd.Flags().StringVar(&listDueAfter, "due-after", "", "only tasks due on or after this date")
	listCmd.Flags().StringVar(&listDueBefore, "due-before", "", "only tasks due on or before this date")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "only tasks carrying every listed tag")
	listCmd.Flags().StringVar(&listSortKey, "sort", "manual", "sort key (manual, date, priority, category, title)")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "sort descending")
}

func buildFilters() (board.Filters, error) {
	f := board.Filters{
		Search:     listSearch,
		Categories: listCategories,
		Tags:       listTags,
	}
	for _, p := range listPriorities {
		priority, err := parsePriority(p)
		if err != nil {
			return board.Filters{}, err
		}
		f.Priorities = append(f.Priorities, priority)
	}
	switch listStatus {
	case "":
	case "pending":
		pending := false
		f.Completed = &pending
	case "completed":
		completed := true
		f.Completed = &completed
	default:
		return board.Filters{}, fmt.Errorf("invalid status '%s' (expected pending or completed)", listStatus)
	}
	var err error
	if f.DueAfter, err = parseDate(listDueAfter); err != nil {
		return board.Filters{}, err
	}
	if f.DueBefore, err = parseDate(listDueBefore); err != nil {
		return board.Filters{}, err
	}
	return f, nil
}

func buildSort() (board.SortKey, board.SortDirection, error) {
	var key board.SortKey
	switch listSortKey {
	case "manual":
		key = board.SortManual
	case "date":
		key = board.SortDate
	case "priority":
		key = board.SortPriority
	case "category":
		key = board.SortCategory
	case "title", "name":
		key = board.SortTitle
	default:
		return "", "", fmt.Errorf("invalid sort key '%s'", listSortKey)
	}
	dir := board.Ascending
	if listDesc {
		dir = board.Descending
	}
	return key, dir, nil
}

func runList(cmd *cobra.Command, args []string) error {
	filters, err := buildFilters()
	if err != nil {
		return err
	}
	key, dir, err := buildSort()
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	s.Board.SetFilter(filters)
	s.Board.SetSort(key, dir)
	visible := s.Board.VisibleTasks()

	if isJSON() {
		if visible == nil {
			visible = []models.Task{}
		}
		return printJSON(visible)
	}
	cmd.Print(ui.RenderTaskList(visible))
	return nil
}
