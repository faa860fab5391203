package main

import (
	"os"

	"github.com/fittrackd/fittrackd/cmd/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
