package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "phingest"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/phingest by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/phingest by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/phingest/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/phingest/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// JournalPath returns the full path to the ingest journal.
// Returns ~/.cache/phingest/journal.db by default.
func JournalPath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "journal.db")
}
