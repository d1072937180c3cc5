package commands

import (
	"context"

	"github.com/spf13/cobra"

	"kopstat/internal/mcp"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	return mcp.NewServer(a.cfg, a.engine, Version).Run(ctx)
}
