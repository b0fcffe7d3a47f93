package cmd

import (
	"strings"

	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/spf13/cobra"
)

var (
	addDescription string
	addPriority    string
	addCategory    string
	addTags        []string
	addDue         string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the board",
	Long: `Add a task. Title is required; everything else defaults.

Examples:
  momentum add "Write the quarterly report" -p high --category Work
  momentum add "Buy groceries" --tags errands,food --due 2026-09-05`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority (low, medium, high; default medium)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "category (defaults to the configured fallback)")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "comma-separated tags")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	priority, err := parsePriority(addPriority)
	if err != nil {
		return err
	}
	due, err := parseDate(addDue)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.Board.Add(models.CreateInput{
		Title:       strings.Join(args, " "),
		Description: addDescription,
		Priority:    priority,
		Category:    addCategory,
		Tags:        addTags,
		DueDate:     due,
	})
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(task)
	}
	cmd.Printf("Added task: %s (id: %s)\n", task.Title, task.ID)
	return nil
}
