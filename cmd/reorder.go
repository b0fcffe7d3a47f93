package cmd

import (
	"fmt"
	"strconv"

	"github.com/Samuel-Rojas/Momentum/internal/ui"
	"github.com/spf13/cobra"
)

// reorderCmd represents the reorder command
var reorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move a task within the visible list",
	Long: `Moves the task at visible position <from> to position <to> (both
zero-based, as shown by 'momentum list'), then renumbers the whole
board so manual order stays dense.`,
	Args: cobra.ExactArgs(2),
	RunE: runReorder,
}

func init() {
	rootCmd.AddCommand(reorderCmd)
}

func runReorder(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid from index '%s'", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid to index '%s'", args[1])
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Board.Reorder(from, to); err != nil {
		return err
	}
	cmd.Print(ui.RenderTaskList(s.Board.VisibleTasks()))
	return nil
}
