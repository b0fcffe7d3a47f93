package types

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	JSON    bool          `mapstructure:"json"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
}

// ProjectConfig holds project-related settings.
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
	// OwnerID scopes documents in the backing store. A single-user
	// installation gets a generated ID at init time.
	OwnerID string `mapstructure:"ownerId" validate:"required"`
	// DefaultCategory is assigned to tasks created without one.
	DefaultCategory string `mapstructure:"defaultCategory" validate:"required"`
	// Categories seeds the category list shown by the CLI; tasks may use
	// any free-form category on top of these.
	Categories []string `mapstructure:"categories"`
}

// DataConfig holds data storage configuration.
type DataConfig struct {
	// Backend selects the document store implementation.
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
	File    string `mapstructure:"file" validate:"required"`
	// Format applies to the file backend only.
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}
