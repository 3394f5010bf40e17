// Package main - Entry point for the workorder-pricing CLI
package main

import (
	"os"

	"workorder-pricing/cmd/cli/cmd"
	"workorder-pricing/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
