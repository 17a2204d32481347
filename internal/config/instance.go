package config

import (
	"os"
	"runtime"
	"syscall"

	"github.com/clockbar/clockbar/internal/models"
)

// LoadInstanceInfo loads the tray host connection info from instance.yaml.
// Returns nil if the file doesn't exist.
func LoadInstanceInfo() (*models.InstanceInfo, error) {
	path, err := InstanceFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.InstanceInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveInstanceInfo saves the tray host connection info to instance.yaml.
func SaveInstanceInfo(info *models.InstanceInfo) error {
	if err := EnsureAppDataDir(); err != nil {
		return err
	}

	path, err := InstanceFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveInstanceInfo removes the instance.yaml file.
func RemoveInstanceInfo() error {
	path, err := InstanceFile()
	if err != nil {
		return err
	}

	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsInstanceRunning checks if a tray host process is still running.
// Returns true if instance.yaml exists and the PID is alive.
func IsInstanceRunning() (bool, *models.InstanceInfo, error) {
	info, err := LoadInstanceInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	if !processAlive(info.PID) {
		// Process doesn't exist, clean up stale file
		_ = RemoveInstanceInfo()
		return false, info, nil
	}

	return true, info, nil
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Windows FindProcess opens a handle and fails for dead PIDs.
	if runtime.GOOS == "windows" {
		_ = process.Release()
		return true
	}
	// Send signal 0 to check if process exists
	return process.Signal(syscall.Signal(0)) == nil
}
