package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long: `Deletes a task from the board. With no argument, presents an
interactive picker. Asks for confirmation unless --yes is given.`,
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"rm"},
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		task, err := selectTaskInteractive(s.Board, nil, "Delete which task")
		if err != nil {
			return err
		}
		id = task.ID
	}

	task, err := s.Board.Get(id)
	if err != nil {
		return err
	}

	if !deleteYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete '%s'", task.Title),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := s.Board.Delete(id); err != nil {
		return err
	}
	cmd.Printf("Deleted: %s\n", strings.TrimSpace(task.Title))
	return nil
}
