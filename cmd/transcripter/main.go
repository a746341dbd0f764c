// Package main provides the entry point for the transcripter CLI.
package main

import (
	"os"

	"github.com/transcripter/transcripter/cmd/transcripter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
