package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if isJSON() {
			return printJSON(cfg)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			cmd.Printf("Config file: %s\n", used)
		} else {
			cmd.Println("Config file: (none, using defaults)")
		}
		cmd.Printf("Root dir:         %s\n", cfg.Project.RootDir)
		cmd.Printf("Owner ID:         %s\n", cfg.Project.OwnerID)
		cmd.Printf("Default category: %s\n", cfg.Project.DefaultCategory)
		cmd.Printf("Backend:          %s\n", cfg.Data.Backend)
		cmd.Printf("Data file:        %s\n", dataFilePath())
		cmd.Printf("Format:           %s\n", cfg.Data.Format)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
