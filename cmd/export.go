package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// exportFs is swapped for an in-memory filesystem in tests.
var exportFs = afero.NewOsFs()

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all tasks as JSON",
	Long: `Writes the full task collection as a JSON array. With no argument
the JSON goes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := s.Board.Export()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		cmd.Println(string(data))
		return nil
	}

	if err := afero.WriteFile(exportFs, args[0], data, 0o644); err != nil {
		return fmt.Errorf("failed to write export to %s: %w", args[0], err)
	}
	cmd.Printf("Exported %d bytes to %s\n", len(data), args[0])
	return nil
}
