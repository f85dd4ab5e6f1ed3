package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Kabutaro server version and status. Use this to verify connectivity."),
	)
}

// createResolveTickerTool returns the resolve_ticker tool definition
func createResolveTickerTool() mcp.Tool {
	return mcp.NewTool("resolve_ticker",
		mcp.WithDescription("Resolve a Tokyo Stock Exchange code or Japanese company name to an exchange symbol (e.g. '7974' or '任天堂' -> '7974.T')."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("4-digit code or company name, full-width characters accepted"),
		),
	)
}

// createGetStockReportTool returns the get_stock_report tool definition
func createGetStockReportTool() mcp.Tool {
	return mcp.NewTool("get_stock_report",
		mcp.WithDescription("Get the stock summary (price, PER, PBR, EPS, dividend, yield, ROE, BPS, market cap) exactly as the chat bot would reply."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("4-digit code or company name"),
		),
	)
}

// createGetRankingTool returns the get_ranking tool definition
func createGetRankingTool() mcp.Tool {
	return mcp.NewTool("get_ranking",
		mcp.WithDescription("Get today's market movers digest for the Tokyo market."),
		mcp.WithString("kind",
			mcp.Description("Ranking kind: gainers (default), losers, volume"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of rows (default from config, usually 5)"),
		),
	)
}
