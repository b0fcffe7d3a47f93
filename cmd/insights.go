package cmd

import (
	"github.com/Samuel-Rojas/Momentum/internal/insights"
	"github.com/Samuel-Rojas/Momentum/internal/ui"
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/spf13/cobra"
)

// insightsCmd represents the insights command
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show your productivity pattern and suggested task order",
	Long: `Shows the productivity pattern derived from your completion history:
most productive time of day and weekday, categories ranked by how
fast you clear them, and a suggested ordering of your pending tasks.

Insights need at least five completed tasks.`,
	RunE: runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.Collector.CanProvideInsights() {
		remaining := insights.MinSamples - len(s.Collector.Samples())
		cmd.Printf("Not enough history yet. Complete %d more task(s) to unlock insights.\n", remaining)
		return nil
	}

	pattern := s.Collector.Pattern()
	recs := insights.Recommendations(pattern)

	pending := make([]models.Task, 0)
	for _, t := range s.Board.Tasks() {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	ordered := insights.OptimalOrder(pending, pattern)

	if isJSON() {
		return printJSON(struct {
			Pattern         *models.ProductivityPattern `json:"pattern"`
			Recommendations []string                    `json:"recommendations"`
			OptimalOrder    []models.Task               `json:"optimalOrder"`
		}{pattern, recs, ordered})
	}
	cmd.Print(ui.RenderInsights(pattern, recs, ordered))
	return nil
}
