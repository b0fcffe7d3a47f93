package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initBackend string

// initCmd creates the project directory and writes a starter config.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a Momentum board in the current directory",
	Long: `Creates the .momentum directory, generates an owner ID, and writes
a starter configuration file. Safe to re-run; an existing config is
left untouched.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initBackend, "backend", "file", "storage backend (file or sqlite)")
}

func runInit(cmd *cobra.Command, args []string) error {
	if initBackend != "file" && initBackend != "sqlite" {
		return fmt.Errorf("invalid backend '%s' (expected file or sqlite)", initBackend)
	}

	rootDir := GetConfig().Project.RootDir
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", rootDir, err)
	}

	cfgPath := filepath.Join(rootDir, configName+".yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		cmd.Printf("Config already exists at %s\n", cfgPath)
		return nil
	}

	dataFile := "tasks.json"
	if initBackend == "sqlite" {
		dataFile = "tasks.db"
	}

	v := viper.New()
	v.Set("project.rootDir", rootDir)
	v.Set("project.ownerId", uuid.NewString())
	v.Set("project.defaultCategory", defaultCategory)
	v.Set("project.categories", defaultCategories)
	v.Set("data.backend", initBackend)
	v.Set("data.file", dataFile)
	v.Set("data.format", "json")

	if err := v.WriteConfigAs(cfgPath); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", cfgPath, err)
	}

	cmd.Printf("Initialized Momentum board in %s (backend: %s)\n", rootDir, initBackend)
	return nil
}
