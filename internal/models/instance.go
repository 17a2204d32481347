package models

import "time"

// InstanceInfo describes the running tray host.
// This corresponds to <app-data-dir>/instance.yaml.
type InstanceInfo struct {
	Version   int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	PID       int       `yaml:"pid"`
	Token     string    `yaml:"token"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewInstanceInfo creates instance info with current values.
func NewInstanceInfo(host string, port, pid int, token string) *InstanceInfo {
	return &InstanceInfo{
		Version:   1,
		Host:      host,
		Port:      port,
		PID:       pid,
		Token:     token,
		StartedAt: time.Now().UTC(),
	}
}
