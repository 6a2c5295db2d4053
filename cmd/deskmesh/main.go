package main

import (
	"os"

	"github.com/deskmesh/deskmesh/cmd/deskmesh/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
