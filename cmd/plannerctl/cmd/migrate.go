package cmd

import (
	"fmt"

	"github.com/NomadCrew/nomad-crew-planner/db"
	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "manage schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configLoader()
			if err != nil {
				return err
			}
			return db.RunMigrations(cfg.Database.URL())
		},
	})

	down := &cobra.Command{
		Use:     "down",
		Short:   "roll back migrations",
		Example: `plannerctl migrate down --steps 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			cfg, err := configLoader()
			if err != nil {
				return err
			}
			return db.RollbackMigrations(cfg.Database.URL(), steps)
		},
	}
	down.Flags().IntP("steps", "n", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configLoader()
			if err != nil {
				return err
			}
			version, dirty, err := db.MigrationVersion(cfg.Database.URL())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	})

	return cmd
}
