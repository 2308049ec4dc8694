package config

// LoggingConfig configures the logrus logger shared by the daemon and CLI
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// stdout, stderr or file; file appends to FilePath
	Output   string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	// Adds file:line of the caller to each entry
	IncludeCaller bool `mapstructure:"include_caller"`

	// Fields stamped on every entry, e.g. {site: north-ridge}
	Fields map[string]string `mapstructure:"fields"`
}
