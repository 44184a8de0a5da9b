package main

import (
	"os"

	"github.com/shroud-io/shroud/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
