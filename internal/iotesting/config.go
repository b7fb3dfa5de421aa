// Package iotesting provides shared test utilities for store, ingestion
// and CLI tests.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gnames/gnlineage/pkg/config"
)

const (
	// TestDatabaseName is the PostgreSQL database used by integration tests.
	// Tests never run against a production database.
	TestDatabaseName = "gnlineage_test"
)

// GetTestConfig returns a configuration for PostgreSQL integration tests.
// Connection settings come from GNLINEAGE_DATABASE_* environment variables
// when they are set, otherwise from defaults. The database name is always
// TestDatabaseName.
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ...
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()
	var opts []config.Option
	if s := os.Getenv("GNLINEAGE_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("GNLINEAGE_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("GNLINEAGE_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("GNLINEAGE_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database part of GetTestConfig.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SQLiteConfig returns a configuration that keeps the store in a fresh
// SQLite file inside a temporary directory removed after the test.
func SQLiteConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(dir),
		config.OptDatabaseBackend(config.BackendSQLite),
		config.OptDatabaseSQLitePath(filepath.Join(dir, "taxonomy.sqlite")),
		config.OptImportBatchSize(3),
	})
	return cfg
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
