package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnlineage"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnlineage by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for local data such as the
// SQLite store. Returns ~/.local/share/gnlineage by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnlineage/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnlineage/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
