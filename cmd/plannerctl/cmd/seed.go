package cmd

import (
	"fmt"

	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/internal/seed"
	"github.com/spf13/cobra"
)

var fixturesPath string

// loadFixtures reads path, or the built-in set when path is empty.
func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.Default(), nil
	}
	return seed.LoadFile(path)
}

func seedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "load fixture data",
		Long:    `seed inserts users, trips, invitations, steps, votes and expenses described in a YAML file. Without --file the built-in demo set is used. Everything is written in one transaction.`,
		Example: `plannerctl seed --file fixtures.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := loadFixtures(fixturesPath)
			if err != nil {
				return err
			}

			cfg, err := configLoader()
			if err != nil {
				return err
			}
			sqlDB, err := config.OpenSQL(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			reg, err := seed.NewSeeder(sqlDB, cfg.Auth.BcryptCost).Run(cmd.Context(), fx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d trips, %d steps\n",
				reg.Count(seed.KindUser), reg.Count(seed.KindTrip), reg.Count(seed.KindStep))
			return nil
		},
	}

	cmd.Flags().StringVarP(&fixturesPath, "file", "f", "", "YAML fixtures file")
	return cmd
}
