package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/opsreport/core"
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// toolResult pairs a pipeline result with its trend, when history is on.
type toolResult struct {
	Result any           `json:"result"`
	Trend  *schema.Trend `json:"trend,omitempty"`
}

func (h *toolHandler) handleSummarizeAccessibility(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.ReportPath = request.GetString("report_path", "")
	if cfg.ReportPath == "" {
		return mcp.NewToolResultError("report_path is required"), nil
	}
	if app := request.GetString("application", ""); app != "" {
		cfg.Application = app
	}

	summary, trend, err := core.GetComplianceResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("accessibility summary failed: %v", err)), nil
	}
	return jsonResult(toolResult{Result: summary, Trend: trend})
}

func (h *toolHandler) handleAnalyzePerformance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("load_report", ""); p != "" {
		cfg.LoadTestPath = p
	}
	if p := request.GetString("lighthouse_report", ""); p != "" {
		cfg.LighthousePath = p
	}

	report, trend, err := core.GetPerformanceResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("performance analysis failed: %v", err)), nil
	}
	return jsonResult(toolResult{Result: report, Trend: trend})
}

func (h *toolHandler) handleCheckLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	raw := request.GetString("base_url", "")
	if raw == "" {
		return mcp.NewToolResultError("base_url is required"), nil
	}
	base, err := contract.ValidateBaseURL(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid link parameters: %v", err)), nil
	}
	cfg.BaseURL = base

	if w := request.GetInt("workers", 0); w != 0 {
		if w < 1 || w > contract.MaxLinkWorkers {
			return mcp.NewToolResultError(fmt.Sprintf("invalid link parameters: workers must be between 1 and %d", contract.MaxLinkWorkers)), nil
		}
		cfg.LinkWorkers = w
	}
	cfg.Crawl = request.GetBool("crawl", cfg.Crawl)

	report, trend, err := core.GetLinkResults(core.WithSuppressHeader(ctx), cfg, h.mgr, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("link check failed: %v", err)), nil
	}
	return jsonResult(toolResult{Result: report, Trend: trend})
}

func (h *toolHandler) handleListRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(core.GetRules())
}

// jsonResult renders data as indented JSON text content.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
