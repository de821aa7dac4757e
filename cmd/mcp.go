package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/internal/mcp"
)

// mcpCmd starts the Model Context Protocol server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI assistant integration",
	Long: `Start a Model Context Protocol (MCP) server exposing PyPI download
statistics over stdio.

The server offers one tool, query_pypi_downloads, which accepts the same
project, fields, date window, and limit parameters as the CLI and returns
JSON results. Flags such as --creds-file and --cache-backend apply as
defaults for tool calls.

Credentials are resolved lazily: the server starts without them and only
needs BigQuery access when a tool call runs a query.

Examples:
  # Start the server (typically launched by an MCP client)
  pypinfo mcp

  # With an explicit credentials file
  pypinfo mcp --creds-file ~/keys/pypinfo-sa.json`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := cacheSetup(); err != nil {
			return err
		}
		cfg.CredsFile = viper.GetString("creds-file")
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		defer closeCache()
		factory := func(ctx context.Context) (contract.Executor, error) {
			credsFile, err := resolveCredsFile()
			if err != nil {
				return nil, err
			}
			return newExecutor(ctx, credsFile)
		}
		return mcp.StartMCPServer(rootCtx, cfg, factory)
	},
}
