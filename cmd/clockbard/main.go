// Package main is the entry point for the clockbard tray host.
package main

import (
	"os"

	"github.com/clockbar/clockbar/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
