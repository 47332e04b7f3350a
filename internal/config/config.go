// Package config provides configuration types, defaults, and persistence for
// curio.
package config

import (
	"fmt"
	"time"

	"github.com/tkaster/curio/internal/tracing"
)

// DefaultMaximumOwned bounds how many collectibles one account may hold.
const DefaultMaximumOwned = 100

// Config holds all configuration options for the curio daemon.
type Config struct {
	// Listen is the HTTP API listen address.
	Listen string `mapstructure:"listen"`

	// DBPath is the SQLite database file for the journal and snapshots.
	// An empty path runs with an in-memory database.
	DBPath string `mapstructure:"db_path"`

	Registry  RegistryConfig  `mapstructure:"registry"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Bank      BankConfig      `mapstructure:"bank"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// RegistryConfig holds collectible registry settings.
type RegistryConfig struct {
	// MaximumOwned bounds the collection size per account.
	MaximumOwned uint32 `mapstructure:"maximum_owned"`
}

// ProcessorConfig holds command processor settings.
type ProcessorConfig struct {
	// QueueCapacity is the command queue buffer size.
	QueueCapacity int `mapstructure:"queue_capacity"`

	// DedupWindow is how long identical commands are rejected as duplicates.
	DedupWindow time.Duration `mapstructure:"dedup_window"`
}

// BankConfig seeds the in-memory ledger at startup.
type BankConfig struct {
	// Accounts maps account ids to their opening balance.
	Accounts map[string]uint64 `mapstructure:"accounts"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `mapstructure:"level"`

	// File is the log file path. Empty logs to stderr.
	File string `mapstructure:"file"`
}

// TracingConfig mirrors tracing.Config with mapstructure tags for viper.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"`
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	ServiceName  string  `mapstructure:"service_name"`
}

// ToTracing converts to the tracing package's config type.
func (t TracingConfig) ToTracing() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	if t.FilePath != "" {
		cfg.FilePath = t.FilePath
	}
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	if t.ServiceName != "" {
		cfg.ServiceName = t.ServiceName
	}
	return cfg
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Listen: "127.0.0.1:8480",
		DBPath: "",
		Registry: RegistryConfig{
			MaximumOwned: DefaultMaximumOwned,
		},
		Processor: ProcessorConfig{
			QueueCapacity: 1024,
			DedupWindow:   5 * time.Second,
		},
		Bank: BankConfig{
			Accounts: map[string]uint64{},
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Exporter: "none",
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Registry.MaximumOwned == 0 {
		return fmt.Errorf("registry.maximum_owned must be at least 1")
	}
	if c.Processor.QueueCapacity <= 0 {
		return fmt.Errorf("processor.queue_capacity must be positive")
	}
	if c.Processor.DedupWindow < 0 {
		return fmt.Errorf("processor.dedup_window must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	return nil
}
