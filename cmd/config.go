package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Samuel-Rojas/Momentum/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".momentum"
	envPrefix  = "MOMENTUM"

	defaultRootDir  = ".momentum"
	defaultOwnerID  = "local"
	defaultCategory = "Other"
)

var defaultCategories = []string{"Work", "Personal", "Study", "Health", "Shopping", "Other"}

// GlobalAppConfig holds the global application configuration instance,
// populated by InitConfig.
var GlobalAppConfig types.AppConfig

// configValidate caches struct info for AppConfig validation.
var configValidate = validator.New()

// InitConfig reads in the config file and ENV variables if set.
func InitConfig() {
	// Load .env first if present; missing files are fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. MOMENTUM_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("project.rootDir", defaultRootDir)
	viper.SetDefault("project.ownerId", defaultOwnerID)
	viper.SetDefault("project.defaultCategory", defaultCategory)
	viper.SetDefault("project.categories", defaultCategories)
	viper.SetDefault("data.backend", "file")
	viper.SetDefault("data.file", "tasks.json")
	viper.SetDefault("data.format", "json")

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		rootDir := viper.GetString("project.rootDir")
		if _, err := os.Stat(rootDir); !os.IsNotExist(err) {
			// Project-specific config directory exists; prioritize it.
			viper.AddConfigPath(rootDir)
			viper.SetConfigName(configName)
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigName(configName)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		HandleFatalError("Configuration could not be parsed.", err)
	}
	if err := configValidate.Struct(&GlobalAppConfig); err != nil {
		HandleFatalError("Configuration is invalid. Run 'momentum config' to inspect it.", err)
	}
}

// GetConfig returns the loaded application configuration.
func GetConfig() types.AppConfig {
	return GlobalAppConfig
}
