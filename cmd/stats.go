package cmd

import (
	"github.com/Samuel-Rojas/Momentum/internal/ui"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate board statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.Board.Stats()
	if isJSON() {
		return printJSON(st)
	}
	cmd.Print(ui.RenderStats(st))
	return nil
}
