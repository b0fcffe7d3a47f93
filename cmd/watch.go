package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Samuel-Rojas/Momentum/internal/ui"
	"github.com/Samuel-Rojas/Momentum/internal/watch"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the task list whenever the data file changes",
	Long: `Keeps the task list on screen and reloads it whenever another
process writes the data file. Only the file backend can be watched.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if GetConfig().Data.Backend != "file" {
		return fmt.Errorf("watch requires the file backend (current: %s)", GetConfig().Data.Backend)
	}

	render := func() {
		s, err := openSession(context.Background())
		if err != nil {
			PrintError("Could not reload the board.", err)
			return
		}
		defer s.Close()
		cmd.Print("\033[H\033[2J") // clear screen
		cmd.Print(ui.RenderTaskList(s.Board.VisibleTasks()))
	}

	render()

	w, err := watch.New(dataFilePath(), render)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dataFilePath())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
