package main

import (
	"github.com/spf13/cobra"

	"github.com/josh-kartchner/traction/internal/app"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Apply, roll back or inspect database migrations",
		Long: `Run goose against PG_DSN using the embedded migrations,
or MIGRATIONS_DIR when set.

Examples:
  traction migrate
  traction migrate down
  traction migrate status`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			return app.Migrate(cmd.Context(), cfg, logger, command)
		},
	}
}
