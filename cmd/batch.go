package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// batchCmd groups multi-task operations.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Operate on several tasks at once",
}

var batchDoneCmd = &cobra.Command{
	Use:   "done <task-id>...",
	Short: "Complete several tasks at once",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		s.Board.BatchComplete(args)
		cmd.Printf("Completed up to %d task(s)\n", len(args))
		return nil
	},
}

var batchDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>...",
	Short: "Delete several tasks at once",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			return fmt.Errorf("batch delete is destructive; pass --yes to confirm")
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		s.Board.BatchDelete(args)
		cmd.Printf("Deleted up to %d task(s)\n", len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.AddCommand(batchDoneCmd)
	batchCmd.AddCommand(batchDeleteCmd)
	batchDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation requirement")
}
