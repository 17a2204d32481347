// Package tray implements the system tray icon and menu for the tray host.
package tray

import (
	_ "embed"
)

// IconState is one of the named tray icon states.
type IconState string

// Icon states understood by UpdateTrayIconState.
const (
	StateIdle   IconState = "idle"
	StateActive IconState = "active"
	StateOnHold IconState = "onhold"
)

var (
	//go:embed icons/tray-idle.png
	iconIdle []byte

	//go:embed icons/tray-active.png
	iconActive []byte

	//go:embed icons/tray-onhold.png
	iconOnHold []byte
)

// ParseIconState maps a state name to an IconState. Unknown names map to
// StateIdle.
func ParseIconState(name string) IconState {
	switch IconState(name) {
	case StateActive:
		return StateActive
	case StateOnHold:
		return StateOnHold
	default:
		return StateIdle
	}
}

// IconFor returns the bundled PNG icon for a state.
func IconFor(state IconState) []byte {
	switch state {
	case StateActive:
		return iconActive
	case StateOnHold:
		return iconOnHold
	default:
		return iconIdle
	}
}
