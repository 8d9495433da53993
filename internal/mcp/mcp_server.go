// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the opsreport MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Opsreport Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: summarize_accessibility ---
	s.AddTool(mcp.NewTool("summarize_accessibility",
		mcp.WithDescription("Summarize an accessibility test-runner JSON report into a WCAG compliance summary with recommendations."),
		mcp.WithString("report_path", mcp.Description("Path to the test-runner JSON report."), mcp.Required()),
		mcp.WithString("application", mcp.Description("Application name shown in the summary.")),
	), h.handleSummarizeAccessibility)

	// --- 2. Tool: analyze_performance ---
	s.AddTool(mcp.NewTool("analyze_performance",
		mcp.WithDescription("Check an Artillery load-test report and a Lighthouse report against the fixed performance thresholds."),
		mcp.WithString("load_report", mcp.Description("Path to the Artillery JSON report.")),
		mcp.WithString("lighthouse_report", mcp.Description("Path to the Lighthouse JSON report.")),
	), h.handleAnalyzePerformance)

	// --- 3. Tool: check_links ---
	s.AddTool(mcp.NewTool("check_links",
		mcp.WithDescription("Fetch the sitemap of a site and check every listed path plus the critical routes."),
		mcp.WithString("base_url", mcp.Description("Absolute http(s) base URL of the site."), mcp.Required()),
		mcp.WithNumber("workers", mcp.Description("Maximum concurrent requests (defaults to 1).")),
		mcp.WithBoolean("crawl", mcp.Description("Also check internal links found on fetched pages.")),
	), h.handleCheckLinks)

	// --- 4. Tool: list_rules ---
	s.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the fixed thresholds and recommendation keyword tables."),
	), h.handleListRules)

	return s
}

// StartMCPServer starts the opsreport MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
