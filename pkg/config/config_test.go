package config_test

import (
	"path/filepath"
	"testing"

	"github.com/gnames/gnlineage/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gnlineage"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "gnlineage"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "gnlineage", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "gnlineage", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Database defaults
		assert.Equal(t, config.BackendPostgres, cfg.Database.Backend)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "taxonomy", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 3, cfg.Database.RetryAttempts)
		assert.Equal(t, 0, cfg.Database.RetryDelayMs)

		assert.Equal(t, 10_000, cfg.Import.BatchSize)
		assert.False(t, cfg.Import.WithProgress)

		assert.Equal(t, 0, cfg.Lineage.CacheSize)
		assert.Equal(t, 1_000, cfg.Lineage.MaxDepth)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)
	})
}

func TestSQLiteFile(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/user")})
	assert.Equal(t,
		filepath.Join("/home/user", ".local", "share", "gnlineage",
			"taxonomy.sqlite"),
		cfg.SQLiteFile(),
	)

	cfg.Update([]config.Option{config.OptDatabaseSQLitePath("/tmp/tax.db")})
	assert.Equal(t, "/tmp/tax.db", cfg.SQLiteFile())
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid host",
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "trims whitespace",
			input:    "  db.example.com  ",
			expected: "db.example.com",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "localhost", // Should keep default
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "localhost", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseHost(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionDatabasePort(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid port",
			input:    27017,
			expected: 27017,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 5432, // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -100,
			expected: 5432, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabasePort(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Port)
		})
	}
}

func TestOptionDatabaseBackend(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets sqlite", "sqlite", config.BackendSQLite},
		{"sets postgres", "postgres", config.BackendPostgres},
		{"normalizes case", " SQLite ", config.BackendSQLite},
		{"ignores unknown backend", "mongodb", config.BackendPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseBackend(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Backend)
		})
	}
}

func TestOptionDatabaseSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid ssl mode - require",
			input:    "require",
			expected: "require",
		},
		{
			name:     "sets valid ssl mode - verify-full",
			input:    "verify-full",
			expected: "verify-full",
		},
		{
			name:     "normalizes to lowercase",
			input:    "REQUIRE",
			expected: "require",
		},
		{
			name:     "ignores invalid value",
			input:    "invalid",
			expected: "disable", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseSSLMode(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.SSLMode)
		})
	}
}

func TestOptionRetry(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseRetryAttempts(5),
		config.OptDatabaseRetryDelayMs(20),
	})
	assert.Equal(t, 5, cfg.Database.RetryAttempts)
	assert.Equal(t, 20, cfg.Database.RetryDelayMs)

	cfg.Update([]config.Option{
		config.OptDatabaseRetryAttempts(0),
		config.OptDatabaseRetryDelayMs(-1),
	})
	assert.Equal(t, 5, cfg.Database.RetryAttempts, "zero attempts ignored")
	assert.Equal(t, 20, cfg.Database.RetryDelayMs, "negative delay ignored")

	cfg.Update([]config.Option{config.OptDatabaseRetryDelayMs(0)})
	assert.Equal(t, 0, cfg.Database.RetryDelayMs, "zero delay is valid")
}

func TestOptionLineage(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptLineageCacheSize(500),
		config.OptLineageMaxDepth(64),
	})
	assert.Equal(t, 500, cfg.Lineage.CacheSize)
	assert.Equal(t, 64, cfg.Lineage.MaxDepth)

	cfg.Update([]config.Option{config.OptLineageMaxDepth(0)})
	assert.Equal(t, 64, cfg.Lineage.MaxDepth)
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid log level - debug",
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "sets valid log level - error",
			input:    "error",
			expected: "error",
		},
		{
			name:     "normalizes to lowercase",
			input:    "DEBUG",
			expected: "debug",
		},
		{
			name:     "ignores invalid value",
			input:    "trace",
			expected: "info", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogLevel(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionBatchSize(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptImportBatchSize(250)})
	assert.Equal(t, 250, cfg.Import.BatchSize)

	cfg.Update([]config.Option{config.OptImportBatchSize(-1)})
	assert.Equal(t, 250, cfg.Import.BatchSize)
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("custom.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseUser("myuser"),
			config.OptLogLevel("debug"),
		}

		cfg.Update(opts)

		assert.Equal(t, "custom.host.com", cfg.Database.Host)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "myuser", cfg.Database.User)
		assert.Equal(t, "debug", cfg.Log.Level)

		// Unchanged fields keep defaults
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptDatabaseHost("first.host.com"),
			config.OptDatabaseHost("second.host.com"),
		}

		cfg.Update(opts)

		assert.Equal(t, "second.host.com", cfg.Database.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		opts := []config.Option{
			config.OptDatabaseBackend("sqlite"),
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptDatabaseSQLitePath("/tmp/test.sqlite"),
			config.OptDatabaseRetryAttempts(7),
			config.OptDatabaseRetryDelayMs(15),
			config.OptImportBatchSize(1234),
			config.OptLineageCacheSize(100),
			config.OptLineageMaxDepth(50),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
		}
		original.Update(opts)

		convertedOpts := original.ToOptions()
		newCfg := config.New()
		newCfg.Update(convertedOpts)

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Import.BatchSize, newCfg.Import.BatchSize)
		assert.Equal(t, original.Lineage, newCfg.Lineage)
		assert.Equal(t, original.Log, newCfg.Log)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptImportWithProgress(true),
			config.OptImportMetricsFile("/tmp/metrics.prom"),
		})

		opts := cfg.ToOptions()
		newCfg := config.New()
		newCfg.Update(opts)

		assert.Equal(t, "", newCfg.HomeDir)
		assert.False(t, newCfg.Import.WithProgress)
		assert.Equal(t, "", newCfg.Import.MetricsFile)
	})
}
