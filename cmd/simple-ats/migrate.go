package main

import (
	"github.com/spf13/cobra"
	"github.com/tendant/simple-ats/pkg/repository"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	step := func(use, short string, run func(a *app) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp()
				if err != nil {
					return err
				}
				defer a.close()

				if err := run(a); err != nil {
					a.logger.Error("migration failed", zap.String("step", use), zap.Error(err))
					return err
				}
				return nil
			},
		}
	}

	cmd.AddCommand(
		step("up", "Apply all pending migrations", func(a *app) error { return repository.MigrateUp(a.db) }),
		step("down", "Roll back the most recent migration", func(a *app) error { return repository.MigrateDown(a.db) }),
		step("status", "Show the status of all migrations", func(a *app) error { return repository.MigrateStatus(a.db) }),
	)
	return cmd
}
