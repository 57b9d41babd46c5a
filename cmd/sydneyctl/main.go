package main

import (
	"os"

	"github.com/PeronGH/SydneyWeb/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
