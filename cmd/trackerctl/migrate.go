package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"time-tracking-bot/internal/task/repository/sqlite"
)

func migrateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create the schema (idempotent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			db, err := sqlite.Open(cmd.Context(), cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlite.MigrateUp(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date: %s\n", cfg.Database.Path)
			return nil
		},
	})

	var confirm bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Drop the schema and all tracked data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to drop data without --yes")
			}
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			db, err := sqlite.Open(cmd.Context(), cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlite.MigrateDown(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema dropped: %s\n", cfg.Database.Path)
			return nil
		},
	}
	down.Flags().BoolVar(&confirm, "yes", false, "confirm dropping all data")
	cmd.AddCommand(down)

	return cmd
}
