package cmd

import (
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Toggle a task's completion state",
	Long: `Marks a pending task completed, or re-opens a completed one. With no
argument, presents an interactive picker of pending tasks.

Completing a task records a productivity sample; insights unlock after
five completions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		task, err := selectTaskInteractive(s.Board, func(t models.Task) bool { return !t.Completed }, "Complete which task")
		if err != nil {
			return err
		}
		id = task.ID
	}

	if err := s.Board.ToggleComplete(id); err != nil {
		return err
	}

	task, err := s.Board.Get(id)
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(task)
	}
	if task.Completed {
		cmd.Printf("Completed: %s\n", task.Title)
		if s.Collector.CanProvideInsights() {
			cmd.Println("Insights are ready. See them with: momentum insights")
		}
	} else {
		cmd.Printf("Re-opened: %s\n", task.Title)
	}
	return nil
}
