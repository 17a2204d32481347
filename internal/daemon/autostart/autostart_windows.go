//go:build windows

package autostart

import (
	"errors"
	"strconv"

	"golang.org/x/sys/windows/registry"

	"github.com/clockbar/clockbar/internal/buildinfo"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// runKey stores the launch command under the per-user Run key.
type runKey struct {
	exe string
}

func newManager(exe, _ string) Manager {
	return &runKey{exe: exe}
}

func (r *runKey) Enable() error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.SetStringValue(buildinfo.AppName, strconv.Quote(r.exe))
}

func (r *runKey) Disable() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return err
	}
	defer k.Close()
	if err := k.DeleteValue(buildinfo.AppName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}
	return nil
}

func (r *runKey) IsEnabled() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer k.Close()
	if _, _, err := k.GetStringValue(buildinfo.AppName); err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
