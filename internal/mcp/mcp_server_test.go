package mcp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipstats/pypinfo/internal/contract"
	mcp_internal "github.com/pipstats/pypinfo/internal/mcp"
	"github.com/pipstats/pypinfo/schema"
)

// fakeExecutor returns a canned table without touching BigQuery.
type fakeExecutor struct {
	query string
}

func (f *fakeExecutor) Run(_ context.Context, query string) (schema.Table, *schema.QueryStats, error) {
	f.query = query
	return schema.Table{
		{"country", "download_count"},
		{"US", "42"},
	}, &schema.QueryStats{}, nil
}

func TestQueryDownloadsTool(t *testing.T) {
	baseCfg := &contract.Config{Limit: 10}
	exec := &fakeExecutor{}
	s := mcp_internal.NewMCPServer(baseCfg, func(context.Context) (contract.Executor, error) {
		return exec, nil
	})

	ctx := context.Background()
	tool := s.GetTool("query_pypi_downloads")
	require.NotNil(t, tool, "Tool query_pypi_downloads should exist")

	t.Run("missing project", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "query_pypi_downloads",
				Arguments: map[string]any{},
			},
		}
		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "project is required")
	})

	t.Run("invalid fields", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "query_pypi_downloads",
				Arguments: map[string]any{
					"project": "requests",
					"fields":  "country,bogus",
				},
			},
		}
		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid fields")
	})

	t.Run("invalid dates", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "query_pypi_downloads",
				Arguments: map[string]any{
					"project":    "requests",
					"start_date": "yesterday",
				},
			},
		}
		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid query parameters")
	})

	t.Run("successful query", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "query_pypi_downloads",
				Arguments: map[string]any{
					"project": "requests",
					"fields":  "country",
					"pip":     true,
					"limit":   5.0,
				},
			},
		}
		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, `"download_count": 42`)
		assert.Contains(t, exec.query, `file.project = "requests"`)
		assert.Contains(t, exec.query, "LIMIT 5")
	})
}

func TestQueryDownloadsExecutorFailure(t *testing.T) {
	baseCfg := &contract.Config{Limit: 10}
	s := mcp_internal.NewMCPServer(baseCfg, func(context.Context) (contract.Executor, error) {
		return nil, errors.New("no credentials")
	})

	tool := s.GetTool("query_pypi_downloads")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "query_pypi_downloads",
			Arguments: map[string]any{
				"project": "requests",
			},
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "executor setup failed")
}
