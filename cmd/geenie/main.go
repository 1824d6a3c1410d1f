package main

import (
	"os"

	"github.com/jamshidfarook/Geenie-Risk-Engine/cmd/geenie/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
