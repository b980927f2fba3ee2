// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"net"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/wirefp/internal/analysis"
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/internal/log"
)

// GlobalConfig represents the top-level configuration.
// Maps to the `wirefp:` root key in YAML.
type GlobalConfig struct {
	Log      log.Config      `mapstructure:"log" yaml:"log"`
	Analysis analysis.Config `mapstructure:"analysis" yaml:"analysis"`
	Pipeline PipelineConfig  `mapstructure:"pipeline" yaml:"pipeline"`
	Output   OutputConfig    `mapstructure:"output" yaml:"output"`
	Metrics  MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

// ─── Pipeline ───

// PipelineConfig sizes the worker pool between source and sink.
type PipelineConfig struct {
	Workers   int `mapstructure:"workers" yaml:"workers"`       // 0 = GOMAXPROCS
	ReadLimit int `mapstructure:"read_limit" yaml:"read_limit"` // 0 = whole file
}

// ─── Output ───

// OutputConfig selects the record encoding and destination.
type OutputConfig struct {
	Format   string         `mapstructure:"format" yaml:"format"` // json | protobuf | text
	Path     string         `mapstructure:"path" yaml:"path"`     // empty = stdout
	Summary  bool           `mapstructure:"summary" yaml:"summary"`
	Rotation RotationConfig `mapstructure:"rotation" yaml:"rotation"`
	Kafka    KafkaConfig    `mapstructure:"kafka" yaml:"kafka"`
}

// RotationConfig configures output file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool `mapstructure:"compress" yaml:"compress"`
}

// KafkaConfig publishes records to a topic. It replaces the file or stdout
// destination when Brokers is set.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers" yaml:"brokers"`
	Topic        string        `mapstructure:"topic" yaml:"topic"`
	BatchSize    int           `mapstructure:"batch_size" yaml:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout" yaml:"batch_timeout"`
	Compression  string        `mapstructure:"compression" yaml:"compression"` // none | gzip | snappy | lz4
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `wirefp: ...`.
type configRoot struct {
	Wirefp GlobalConfig `mapstructure:"wirefp"`
}

// Load loads configuration from path. An empty path yields the defaults,
// still subject to environment overrides (e.g. WIREFP_LOG_LEVEL).
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The `wirefp.` key prefix maps to `WIREFP_` through the replacer.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Wirefp

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the validated default configuration.
func Default() *GlobalConfig {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// setDefaults sets default values for configuration.
// All keys use "wirefp." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("wirefp.log.level", log.DefaultLevel)
	v.SetDefault("wirefp.log.format", log.DefaultFormat)
	v.SetDefault("wirefp.log.pattern", log.DefaultPattern)
	v.SetDefault("wirefp.log.time", log.DefaultTime)
	v.SetDefault("wirefp.log.file.enabled", false)
	v.SetDefault("wirefp.log.file.path", "/var/log/wirefp/wirefp.log")
	v.SetDefault("wirefp.log.file.max_size_mb", 100)
	v.SetDefault("wirefp.log.file.max_age_days", 30)
	v.SetDefault("wirefp.log.file.max_backups", 5)
	v.SetDefault("wirefp.log.file.compress", true)

	// Analysis defaults
	def := analysis.DefaultConfig()
	v.SetDefault("wirefp.analysis.output_metadata", def.OutputMetadata)
	v.SetDefault("wirefp.analysis.protocols.tls", def.Protocols.TLS)
	v.SetDefault("wirefp.analysis.protocols.dtls", def.Protocols.DTLS)
	v.SetDefault("wirefp.analysis.protocols.http", def.Protocols.HTTP)
	v.SetDefault("wirefp.analysis.protocols.mysql", def.Protocols.MySQL)
	v.SetDefault("wirefp.analysis.protocols.tofsee", def.Protocols.Tofsee)
	v.SetDefault("wirefp.analysis.protocols.dns", def.Protocols.DNS)
	v.SetDefault("wirefp.analysis.protocols.dhcp", def.Protocols.DHCP)
	v.SetDefault("wirefp.analysis.protocols.quic", def.Protocols.QUIC)
	v.SetDefault("wirefp.analysis.protocols.wireguard", def.Protocols.WireGuard)

	// Pipeline defaults
	v.SetDefault("wirefp.pipeline.workers", 0)
	v.SetDefault("wirefp.pipeline.read_limit", 0)

	// Output defaults
	v.SetDefault("wirefp.output.format", "json")
	v.SetDefault("wirefp.output.path", "")
	v.SetDefault("wirefp.output.summary", false)
	v.SetDefault("wirefp.output.rotation.max_size_mb", 0)
	v.SetDefault("wirefp.output.rotation.max_age_days", 0)
	v.SetDefault("wirefp.output.rotation.max_backups", 0)
	v.SetDefault("wirefp.output.rotation.compress", false)
	v.SetDefault("wirefp.output.kafka.brokers", []string{})
	v.SetDefault("wirefp.output.kafka.topic", "")
	v.SetDefault("wirefp.output.kafka.batch_size", 100)
	v.SetDefault("wirefp.output.kafka.batch_timeout", "100ms")
	v.SetDefault("wirefp.output.kafka.compression", "snappy")
	v.SetDefault("wirefp.output.kafka.max_attempts", 3)

	// Metrics defaults
	v.SetDefault("wirefp.metrics.enabled", false)
	v.SetDefault("wirefp.metrics.listen", ":9091")
	v.SetDefault("wirefp.metrics.path", "/metrics")
}

// ValidateAndApplyDefaults validates configuration and applies runtime defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return invalid("invalid log level: %s (must be trace/debug/info/warn/error)", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "pattern", "json", "text":
	default:
		return invalid("invalid log format: %s (must be pattern/json/text)", cfg.Log.Format)
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return invalid("log.file.path is required when log.file.enabled=true")
	}

	// ── Pipeline ──
	if cfg.Pipeline.Workers < 0 {
		return invalid("pipeline.workers must not be negative: %d", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Pipeline.ReadLimit < 0 {
		return invalid("pipeline.read_limit must not be negative: %d", cfg.Pipeline.ReadLimit)
	}

	// ── Output ──
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	switch cfg.Output.Format {
	case "json", "protobuf":
	case "text":
		if !cfg.Output.Summary {
			return invalid("output.format text requires output.summary")
		}
		if len(cfg.Output.Kafka.Brokers) > 0 {
			return invalid("output.format text cannot be sent to kafka")
		}
	default:
		return invalid("invalid output format: %s (must be json/protobuf/text)", cfg.Output.Format)
	}
	if k := &cfg.Output.Kafka; len(k.Brokers) > 0 {
		if k.Topic == "" {
			return invalid("output.kafka.topic is required when brokers are set")
		}
		switch k.Compression {
		case "", "none", "gzip", "snappy", "lz4":
		default:
			return invalid("invalid output.kafka.compression: %s (must be none/gzip/snappy/lz4)", k.Compression)
		}
		if k.BatchSize <= 0 || k.MaxAttempts <= 0 || k.BatchTimeout <= 0 {
			return invalid("output.kafka batch_size, batch_timeout and max_attempts must be positive")
		}
	}

	// ── Metrics ──
	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Listen); err != nil {
			return invalid("invalid metrics.listen %q: %v", cfg.Metrics.Listen, err)
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			return invalid("metrics.path must start with '/': %s", cfg.Metrics.Path)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrConfigInvalid, fmt.Sprintf(format, args...))
}
