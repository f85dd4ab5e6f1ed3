package app

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/kabutaro/internal/common"
	"github.com/bobmcallan/kabutaro/internal/interfaces"
	"github.com/bobmcallan/kabutaro/internal/models"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Kabutaro Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleResolveTicker implements the resolve_ticker tool
func handleResolveTicker(resolver interfaces.ResolverService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || common.IsBlank(query) {
			return errorResult("Error: query parameter is required"), nil
		}

		res := resolver.Resolve(ctx, query)
		if !res.Found() {
			logger.Debug().Str("query", query).Msg("resolve_ticker: not found")
			return textResult(fmt.Sprintf("No symbol found for %q", query)), nil
		}

		return textResult(fmt.Sprintf("%s (resolved by %s)", res.Symbol, res.Source)), nil
	}
}

// handleGetStockReport implements the get_stock_report tool
func handleGetStockReport(reports interfaces.ReportService, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return errorResult("Error: query parameter is required"), nil
		}

		lookup := reports.Lookup(ctx, query)
		if lookup.Failure != "" {
			logger.Debug().Str("query", query).Str("failure", lookup.Failure).Msg("get_stock_report: no report")
			return errorResult(lookup.Text), nil
		}

		return textResult(lookup.Text), nil
	}
}

// handleGetRanking implements the get_ranking tool
func handleGetRanking(rankings interfaces.RankingService, defaultLimit int, logger arbor.ILogger) server.ToolHandlerFunc {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := models.ParseMoverKind(request.GetString("kind", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		limit := request.GetInt("limit", defaultLimit)
		if limit <= 0 || limit > 50 {
			return errorResult("Error: limit must be between 1 and 50"), nil
		}

		logger.Debug().Str("kind", string(kind)).Int("limit", limit).Msg("get_ranking")
		return textResult(rankings.Digest(ctx, kind, limit)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
