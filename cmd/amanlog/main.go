// Package main provides the entry point for the amanlog CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/amanlog/cmd/amanlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
