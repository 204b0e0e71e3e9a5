package main

import (
	"os"

	"github.com/oleg578/csvrecord/cmd/csvrecord/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintErr("Error: %v", err)
		os.Exit(1)
	}
}
