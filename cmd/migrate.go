package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Create or upgrade the contact form database. With --dry-run, list pending migrations only.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrateRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	pending, err := s.PendingMigrations(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		ui.Success("Database is up to date: %s", viper.GetString("db_path"))
		return nil
	}

	if dryRun {
		for _, name := range pending {
			ui.DryRunMsg("Would apply %s", name)
		}
		return nil
	}

	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	for _, name := range pending {
		ui.Success("Applied %s", name)
	}
	return nil
}
