// Package cli defines the cobra command tree for commentboard.
package cli

import (
	"context"
	"os"

	"commentboard/config"
	"commentboard/pkg/logger"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	var port string

	root := &cobra.Command{
		Use:           "commentboard",
		Short:         "Comment board HTTP server",
		Long:          "Serves the users and comments API, the index page and static files. Configuration comes from the environment.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	root.Flags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
	)

	return root
}

// setup loads the configuration and attaches the process logger to the
// command context.
func setup(cmd *cobra.Command) (context.Context, config.Config) {
	cfg := config.LoadConfig(os.Getenv)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, logger.New(cmd.ErrOrStderr(), cfg.Production()))

	return ctx, cfg
}
