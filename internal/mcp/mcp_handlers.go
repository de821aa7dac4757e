package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pipstats/pypinfo/core"
	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/internal/outwriter"
	"github.com/pipstats/pypinfo/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg     *contract.Config
	newExecutor ExecutorFactory
}

func (h *toolHandler) handleQueryDownloads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec := schema.QuerySpec{
		Project:   request.GetString("project", ""),
		StartDate: request.GetString("start_date", h.baseCfg.StartDate),
		EndDate:   request.GetString("end_date", h.baseCfg.EndDate),
		Days:      request.GetInt("days", h.baseCfg.Days),
		Limit:     request.GetInt("limit", h.baseCfg.Limit),
		Where:     request.GetString("where", ""),
		OrderBy:   request.GetString("order", ""),
		Pip:       request.GetBool("pip", false),
	}
	if spec.Project == "" {
		return mcp.NewToolResultError("project is required"), nil
	}

	if raw := request.GetString("fields", ""); raw != "" {
		var keys []string
		for _, key := range strings.Split(raw, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
		fields, err := schema.LookupFields(keys)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid fields: %v", err)), nil
		}
		spec.Fields = fields
	}

	query, err := core.NewBuilder(core.PyPIDownloads).Build(spec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid query parameters: %v", err)), nil
	}

	executor, err := h.newExecutor(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("executor setup failed: %v", err)), nil
	}

	table, _, err := executor.Run(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	doc, err := outwriter.FormatJSON(table, schema.QueryMetadata{"query": query}, 2)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render results: %v", err)), nil
	}
	return mcp.NewToolResultText(doc), nil
}
