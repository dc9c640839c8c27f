package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-compress-mcp/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run the MCP server. Requests are read as JSON-RPC 2.0, one per line, from
stdin and responses are written to stdout. Logs go to stderr.

Configure it in your MCP client (e.g., Claude Desktop) as the command to launch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}
}

func (a *app) runServe(cmd *cobra.Command) error {
	srv := server.New(a.cfg, a.info.Version)
	if err := srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
