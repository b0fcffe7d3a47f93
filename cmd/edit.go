package cmd

import (
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/spf13/cobra"
)

var (
	editTitle       string
	editDescription string
	editPriority    string
	editCategory    string
	editTags        []string
	editDue         string
	editClearDue    bool
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit fields of a task",
	Long: `Applies a partial update: only the flags you pass change. With no
argument, presents an interactive picker.

Examples:
  momentum edit 4e8a... --title "Write Q3 report" -p high
  momentum edit --clear-due`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "new description")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "new priority (low, medium, high)")
	editCmd.Flags().StringVar(&editCategory, "category", "", "new category")
	editCmd.Flags().StringSliceVar(&editTags, "tags", nil, "replacement tag list")
	editCmd.Flags().StringVar(&editDue, "due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "remove the due date")
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		task, err := selectTaskInteractive(s.Board, nil, "Edit which task")
		if err != nil {
			return err
		}
		id = task.ID
	}

	patch := models.Patch{ClearDueDate: editClearDue}
	if cmd.Flags().Changed("title") {
		patch.Title = &editTitle
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &editDescription
	}
	if cmd.Flags().Changed("priority") {
		priority, err := parsePriority(editPriority)
		if err != nil {
			return err
		}
		patch.Priority = &priority
	}
	if cmd.Flags().Changed("category") {
		patch.Category = &editCategory
	}
	if cmd.Flags().Changed("tags") {
		patch.Tags = &editTags
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDate(editDue)
		if err != nil {
			return err
		}
		patch.DueDate = due
	}

	if err := s.Board.Edit(id, patch); err != nil {
		return err
	}

	task, err := s.Board.Get(id)
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(task)
	}
	cmd.Printf("Updated: %s\n", task.Title)
	return nil
}
