// Package main is the entry point for the clockbar CLI.
package main

import (
	"os"

	"github.com/clockbar/clockbar/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
