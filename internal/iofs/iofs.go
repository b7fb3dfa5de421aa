// Package iofs prepares the file system layout used by gnlineage.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/gnlineage/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates config, data and log directories if they are missing.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the embedded config.yaml template unless the
// config file already exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// OpenFile opens a file for reading and wraps failures as ReadFileError.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return f, nil
}

// CreateFile creates or truncates a file for writing.
func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, WriteFileError(path, err)
	}
	return f, nil
}
