// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pipstats/pypinfo/internal/contract"
)

// ExecutorFactory creates an executor on demand, so the server only needs
// BigQuery credentials when a tool call actually runs a query.
type ExecutorFactory func(ctx context.Context) (contract.Executor, error)

// NewMCPServer initializes and configures the pypinfo MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, newExecutor ExecutorFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"PyPI Download Stats Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:     baseCfg,
		newExecutor: newExecutor,
	}

	s.AddTool(mcp.NewTool("query_pypi_downloads",
		mcp.WithDescription("Query PyPI download statistics from the public BigQuery dataset."),
		mcp.WithString("project", mcp.Description("PyPI package name to filter on."), mcp.Required()),
		mcp.WithString("fields", mcp.Description("Comma-separated output fields (e.g. 'country,version'). See the pypinfo field catalog for valid names.")),
		mcp.WithString("start_date", mcp.Description("Start of the date window: negative day offset, YYYY-MM, or YYYY-MM-DD.")),
		mcp.WithString("end_date", mcp.Description("End of the date window: negative day offset, YYYY-MM, or YYYY-MM-DD.")),
		mcp.WithNumber("days", mcp.Description("Number of days in the window, counted back from the end date.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithBoolean("pip", mcp.Description("Restrict to downloads made by pip.")),
		mcp.WithString("where", mcp.Description("Raw WHERE clause fragment, replaces the project and pip filters.")),
		mcp.WithString("order", mcp.Description("Column to order by descending. Defaults to download_count.")),
	), h.handleQueryDownloads)

	return s
}

// StartMCPServer starts the pypinfo MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, newExecutor ExecutorFactory) error {
	s := NewMCPServer(baseCfg, newExecutor)
	return server.ServeStdio(s)
}
