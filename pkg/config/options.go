package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseBackend sets the store implementation.
// Valid values: "postgres", "sqlite".
func OptDatabaseBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.Backend", s) {
			c.Database.Backend = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseSQLitePath sets the location of the SQLite store file.
func OptDatabaseSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Database.SQLitePath = s
		}
	}
}

// OptDatabaseRetryAttempts sets how many times a store operation is
// attempted when the store is temporarily unreachable.
func OptDatabaseRetryAttempts(i int) Option {
	return func(c *Config) {
		if isValidInt("Retry Attempts", i) {
			c.Database.RetryAttempts = i
		}
	}
}

// OptDatabaseRetryDelayMs sets the pause between attempts in milliseconds.
// Zero makes retries immediate.
func OptDatabaseRetryDelayMs(i int) Option {
	return func(c *Config) {
		if isValidNonNegativeInt("Retry Delay", i) {
			c.Database.RetryDelayMs = i
		}
	}
}

// OptImportBatchSize sets the number of records written to the store
// at once during ingestion.
func OptImportBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Import.BatchSize = i
		}
	}
}

// OptImportWithProgress turns the ingestion progress bar on or off.
// Runtime-only field - not in ToOptions().
func OptImportWithProgress(b bool) Option {
	return func(c *Config) {
		c.Import.WithProgress = b
	}
}

// OptImportMetricsFile sets a file for ingestion metrics.
// Runtime-only field - not in ToOptions().
func OptImportMetricsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics File", s) {
			c.Import.MetricsFile = s
		}
	}
}

// OptLineageCacheSize sets the number of cached nodes for lineage
// resolution. Zero disables the cache.
func OptLineageCacheSize(i int) Option {
	return func(c *Config) {
		if isValidNonNegativeInt("Cache Size", i) {
			c.Lineage.CacheSize = i
		}
	}
}

// OptLineageMaxDepth sets the longest ancestor chain accepted before
// the walk is reported as cyclic.
func OptLineageMaxDepth(i int) Option {
	return func(c *Config) {
		if isValidInt("Max Depth", i) {
			c.Lineage.MaxDepth = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config, data, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
