// Package main provides the entry point for the sorex CLI.
package main

import (
	"os"

	"github.com/sorexsearch/sorex/cmd/sorex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
