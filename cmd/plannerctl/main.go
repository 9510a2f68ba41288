package main

import (
	"os"

	"github.com/NomadCrew/nomad-crew-planner/cmd/plannerctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
