package cli

import (
	"commentboard/internal/app"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Connect to the configured store and serve HTTP until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, port string) error {
	ctx, cfg := setup(cmd)
	if port != "" {
		cfg.HTTP.Port = port
	}

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
