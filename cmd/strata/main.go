package main

import (
	"os"

	"github.com/strata3d/strata/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
