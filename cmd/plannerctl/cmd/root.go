// Package cmd holds the plannerctl command tree: schema migrations and
// demo data seeding against the database named by the usual configuration.
package cmd

import (
	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/spf13/cobra"
)

// configLoader is swapped in tests.
var configLoader = config.LoadConfig

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "operate the trip planner database",
		Long:          `plannerctl applies or rolls back schema migrations and loads fixture data. It reads the same environment as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Close()
		},
	}

	root.AddCommand(migrateCommand())
	root.AddCommand(seedCommand())
	return root
}
