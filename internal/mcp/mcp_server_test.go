package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/opsreport/internal/contract"
	mcp_internal "github.com/huangsam/opsreport/internal/mcp"
	"github.com/huangsam/opsreport/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func baseConfig() *contract.Config {
	return &contract.Config{
		Output:         schema.TextOut,
		Precision:      1,
		Application:    "Shop",
		LinkWorkers:    1,
		HistoryBackend: schema.NoneBackend,
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantMsg string
	}{
		{"summarize_accessibility missing path", "summarize_accessibility", map[string]any{}, "report_path is required"},
		{"summarize_accessibility missing file", "summarize_accessibility", map[string]any{"report_path": "/nonexistent/report.json"}, "report file not found"},
		{"analyze_performance no inputs", "analyze_performance", map[string]any{"load_report": "/nonexistent/a.json", "lighthouse_report": "/nonexistent/b.json"}, "no usable performance inputs"},
		{"check_links missing url", "check_links", map[string]any{}, "base_url is required"},
		{"check_links bad scheme", "check_links", map[string]any{"base_url": "ftp://example.com"}, "scheme must be http or https"},
		{"check_links bad workers", "check_links", map[string]any{"base_url": "http://example.com", "workers": 100.0}, "workers must be between 1 and"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, baseConfig(), tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.wantMsg)
		})
	}
}

func TestSummarizeAccessibilityTool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	report := `{"suites":[{"specs":[
		{"title":"Color Contrast Check","tests":[{"status":"failed"}]},
		{"title":"Heading order","tests":[{"status":"passed"}]}
	]}]}`
	require.NoError(t, os.WriteFile(path, []byte(report), 0o644))

	res := callTool(t, baseConfig(), "summarize_accessibility", map[string]any{"report_path": path, "application": "Salon"})
	require.False(t, res.IsError)

	var decoded struct {
		Result schema.ComplianceSummary `json:"result"`
		Trend  *schema.Trend            `json:"trend"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Equal(t, "Salon", decoded.Result.Application)
	assert.Equal(t, 50.0, decoded.Result.AccessibilityScore)
	assert.Nil(t, decoded.Trend)
}

func TestCheckLinksTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			_, _ = fmt.Fprintf(w, `<urlset><url><loc>http://%s/team</loc></url></urlset>`, r.Host)
		case "/this-page-should-not-exist-404-check", "/team":
			http.NotFound(w, r)
		default:
			_, _ = fmt.Fprint(w, "ok")
		}
	}))
	defer srv.Close()

	res := callTool(t, baseConfig(), "check_links", map[string]any{"base_url": srv.URL + "/", "workers": 3.0})
	require.False(t, res.IsError, resultText(t, res))

	var decoded struct {
		Result schema.LinkReport `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decoded))
	assert.Equal(t, srv.URL, decoded.Result.Summary.BaseURL)
	assert.Equal(t, 1, decoded.Result.Summary.NotFound)
	assert.Len(t, decoded.Result.NotFound, 2)
}

func TestListRulesTool(t *testing.T) {
	res := callTool(t, baseConfig(), "list_rules", nil)
	require.False(t, res.IsError)

	var rules schema.RulesModel
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rules))
	assert.NotEmpty(t, rules.Thresholds)
	assert.NotEmpty(t, rules.Keywords)
}
