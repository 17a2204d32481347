// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/clockbar/clockbar/internal/buildinfo"
)

// HomeEnv overrides the application data directory when set.
const HomeEnv = "CLOCKBAR_HOME"

// LogsDirName is the name of the logs directory.
const LogsDirName = "logs"

// File names
const (
	SettingsFileName = "settings.json"
	InstanceFileName = "instance.yaml"
	LogFileName      = "clockbard.log"
)

// AppDataDir returns the per-user application data directory.
func AppDataDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return defaultAppDataDir(runtime.GOOS, home, os.Getenv), nil
}

// defaultAppDataDir picks the platform directory the way each OS expects
// applications to store private files.
func defaultAppDataDir(goos, home string, getenv func(string) string) string {
	switch goos {
	case "windows":
		if p := getenv("LocalAppData"); p != "" {
			return filepath.Join(p, buildinfo.BundleID)
		}
		if p := getenv("AppData"); p != "" {
			return filepath.Join(p, buildinfo.BundleID)
		}
		return filepath.Join(home, "AppData", "Local", buildinfo.BundleID)

	case "darwin":
		return filepath.Join(home, "Library", "Application Support", buildinfo.BundleID)

	default:
		if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, buildinfo.BundleID)
		}
		return filepath.Join(home, ".config", buildinfo.BundleID)
	}
}

// SettingsFile returns the path to the settings.json file.
func SettingsFile() (string, error) {
	dir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// InstanceFile returns the path to the instance.yaml file.
func InstanceFile() (string, error) {
	dir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, InstanceFileName), nil
}

// LogsDir returns the path to the logs directory.
func LogsDir() (string, error) {
	dir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// EnsureAppDataDir creates the application data directory if it doesn't exist.
func EnsureAppDataDir() error {
	dir, err := AppDataDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
