package main

import (
	"os"

	"github.com/mfeller/coverbrief/cmd/coverbrief/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
