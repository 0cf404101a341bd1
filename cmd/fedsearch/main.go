// Package main provides the entry point for the fedsearch CLI.
package main

import (
	"os"

	"github.com/fedsearch/fedsearch/cmd/fedsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
