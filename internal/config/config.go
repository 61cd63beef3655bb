package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/jobtable"
	"github.com/tuanphanughdtun/schedule/internal/logging"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

// Config represents the application configuration
type Config struct {
	Database   db.Config                 `toml:"database"`
	Simulation scheduler.SchedulerConfig `toml:"simulation"`
	Generator  jobtable.GeneratorConfig  `toml:"generator"`
	Output     OutputConfig              `toml:"output"`
	Logging    LoggingConfig             `toml:"logging"`
}

// OutputConfig holds terminal rendering settings
type OutputConfig struct {
	// Draw a Gantt timeline under each schedule table
	Timeline bool `toml:"timeline"`

	// Width of the timeline bar in columns
	TimelineWidth int `toml:"timeline_width"`

	// Disable colors and borders styling
	Plain bool `toml:"plain"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: db.Config{
			Driver:          "sqlite3",
			DSN:             "schedule.db",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			SkipMigrations:  false,
		},
		Simulation: scheduler.DefaultSchedulerConfig(),
		Generator:  jobtable.DefaultGeneratorConfig(),
		Output: OutputConfig{
			Timeline:      true,
			TimelineWidth: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration from a TOML file
func LoadFromFile(path string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// Parse TOML file
	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	return config, nil
}

// LoadConfig loads configuration with the following precedence:
// 1. Default values
// 2. Config file (if specified)
// 3. Command-line flags (handled by caller)
func LoadConfig(configPath string) (*Config, error) {
	// If no config file specified, return defaults
	if configPath == "" {
		return DefaultConfig(), nil
	}

	return LoadFromFile(configPath)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Database validation
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver must be specified")
	}
	if c.Database.Driver != "sqlite3" {
		return fmt.Errorf("unsupported database driver: %s (must be sqlite3)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN must be specified")
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database connection limits must not be negative")
	}

	// Simulation validation
	if _, err := scheduler.NewScheduler(c.Simulation, nil); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	// Generator validation
	if err := c.Generator.Validate(); err != nil {
		return err
	}

	// Output validation
	if c.Output.TimelineWidth < 10 {
		return fmt.Errorf("output timeline_width must be at least 10, got %d", c.Output.TimelineWidth)
	}

	// Logging validation
	if _, err := logging.ParseLevelStrict(c.Logging.Level); err != nil {
		return err
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}
