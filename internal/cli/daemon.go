package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/clockbar/clockbar/internal/config"
)

const hostBinaryName = "clockbard"

// EnsureHost makes sure the tray host is running, starting it if necessary.
func EnsureHost() error {
	running, _, err := config.IsInstanceRunning()
	if err != nil {
		return fmt.Errorf("failed to check clockbard status: %w", err)
	}
	if running {
		return nil
	}
	return startHost()
}

// startHost starts the tray host process in the background.
func startHost() error {
	hostPath, err := findHostBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(hostPath)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start clockbard: %w", err)
	}
	// The host outlives this process.
	_ = cmd.Process.Release()

	// Wait for the host to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsInstanceRunning()
		if err == nil && running {
			return nil
		}
	}

	return fmt.Errorf("clockbard failed to start within timeout")
}

// waitForExit polls until the recorded instance is gone (max 5 seconds).
func waitForExit() error {
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsInstanceRunning()
		if err == nil && !running {
			return nil
		}
	}
	return fmt.Errorf("clockbard did not stop within timeout")
}

// findHostBinary locates the clockbard binary.
func findHostBinary() (string, error) {
	name := hostBinaryName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	// Try PATH first
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	// Try next to the current executable
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	// Try build directory
	candidate := filepath.Join("build", name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", hostBinaryName)
}
