package cli

import (
	"commentboard/internal/app"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  "Create the tables of the configured postgres or sqlite store. Safe to run repeatedly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg := setup(cmd)
			return app.Migrate(ctx, cfg)
		},
	}
}
