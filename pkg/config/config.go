// Package config provides configuration management for gnlineage.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: backend, host, port, user, password, database, ssl_mode,
//     sqlite_path, retry_attempts, retry_delay_ms
//   - Import: batch_size
//   - Lineage: cache_size, max_depth
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Import.WithProgress, Import.MetricsFile (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNLINEAGE_ prefix with underscores for nesting:
//
//	GNLINEAGE_DATABASE_HOST=localhost
//	GNLINEAGE_DATABASE_PORT=5432
//	GNLINEAGE_DATABASE_DATABASE=taxonomy
//	GNLINEAGE_LOG_LEVEL=info
package config

import (
	"path/filepath"
)

const (
	// BackendPostgres keeps the mirror in a PostgreSQL database.
	BackendPostgres = "postgres"
	// BackendSQLite keeps the mirror in a local SQLite file.
	BackendSQLite = "sqlite"
)

// Config represents the complete gnlineage configuration.
type Config struct {
	// Database contains the taxonomy store connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings for ingestion of taxonomy dumps.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	// Lineage contains settings for lineage resolution.
	Lineage LineageConfig `mapstructure:"lineage" yaml:"lineage"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains taxonomy store parameters.
type DatabaseConfig struct {
	// Backend selects the store implementation: "postgres" or "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Host is the PostgreSQL server hostname or IP address
	// ('hostname' in older configurations).
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the database name to connect to
	// ('database_name' in older configurations).
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// SQLitePath is the location of the SQLite file for the "sqlite"
	// backend. If empty, the file is kept in the data directory.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// RetryAttempts is the total number of attempts for a store operation
	// that fails with a transient connectivity error.
	RetryAttempts int `mapstructure:"retry_attempts" yaml:"retry_attempts"`

	// RetryDelayMs is the pause between attempts in milliseconds.
	// Zero means an immediate retry.
	RetryDelayMs int `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
}

// ImportConfig contains settings for the ingest command.
type ImportConfig struct {
	// BatchSize is the number of records written to the store at once.
	// Links are streamed, so at most one batch of them is kept in memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// WithProgress shows a progress bar during ingestion.
	// Runtime-only.
	WithProgress bool `mapstructure:"-" yaml:"-"`

	// MetricsFile, if set, receives ingestion metrics in Prometheus
	// textfile format after the run. Runtime-only.
	MetricsFile string `mapstructure:"-" yaml:"-"`
}

// LineageConfig contains settings for lineage resolution.
type LineageConfig struct {
	// CacheSize is the number of nodes kept in an in-memory LRU cache
	// during lineage resolution. Zero disables the cache.
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`

	// MaxDepth limits the number of ancestors walked for one lineage.
	// A longer chain is reported as a cycle in the stored taxonomy.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Backend:       BackendPostgres,
			Host:          "localhost",
			Port:          5432,
			User:          "postgres",
			Password:      "postgres",
			Database:      "taxonomy",
			SSLMode:       "disable",
			RetryAttempts: 3,
		},
		Import: ImportConfig{
			BatchSize: 10_000,
		},
		Lineage: LineageConfig{
			MaxDepth: 1_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}

// SQLiteFile returns the path of the SQLite store file. It uses
// Database.SQLitePath when set, otherwise a file in the data directory.
func (c *Config) SQLiteFile() string {
	if c.Database.SQLitePath != "" {
		return c.Database.SQLitePath
	}
	return filepath.Join(DataDir(c.HomeDir), "taxonomy.sqlite")
}
