package log

// Config configures the process logger.
type Config struct {
	Level   string     `mapstructure:"level" yaml:"level"`
	Format  string     `mapstructure:"format" yaml:"format"` // pattern, json or text
	Pattern string     `mapstructure:"pattern" yaml:"pattern"`
	Time    string     `mapstructure:"time" yaml:"time"`
	File    FileConfig `mapstructure:"file" yaml:"file"`
}

// FileConfig enables a rotated log file next to stdout.
type FileConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Defaults used when a field is left empty.
const (
	DefaultLevel   = "info"
	DefaultFormat  = "pattern"
	DefaultPattern = "%time [%level] %field %msg\n"
	DefaultTime    = "2006-01-02 15:04:05.000"
)

// DefaultConfig returns the configuration of the logger that exists before
// Init is called.
func DefaultConfig() Config {
	return Config{
		Level:   DefaultLevel,
		Format:  DefaultFormat,
		Pattern: DefaultPattern,
		Time:    DefaultTime,
	}
}
