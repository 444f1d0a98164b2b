// ABOUTME: MCP command for starting the Model Context Protocol server.
// ABOUTME: Exposes push and history capabilities as MCP tools over stdio.
package cli

import (
	"fmt"

	pushmcp "github.com/harper/gitpush/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	}
	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}

	store, dbPath, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server, err := pushmcp.NewServer(cfg, cfgPath, store, dbPath, pushmcp.WithLogger(newLogger(cmd.ErrOrStderr())))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server (stdio)...")
	return server.Serve(cmd.Context())
}
