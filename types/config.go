package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// LogConfig locates the durable completion log. The driver selects the
// backend; the file name is resolved relative to the project root dir.
type LogConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=csv sqlite"`
	File   string `mapstructure:"file" validate:"required"`
}
