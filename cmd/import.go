package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// importFs is swapped for an in-memory filesystem in tests.
var importFs = afero.NewOsFs()

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the board with tasks from a JSON export",
	Long: `Reads a JSON array of tasks and replaces the current collection
wholesale. A malformed payload aborts the import; the existing board
is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := afero.ReadFile(importFs, args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Board.Import(data); err != nil {
		return err
	}
	cmd.Printf("Imported %d task(s) from %s\n", len(s.Board.Tasks()), args[0])
	return nil
}
