//go:build basic

// Package integration contains integration tests for opsreport.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/opsreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestA11yVerification runs the a11y command and checks the summary against the fixture.
func TestA11yVerification(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "test-results/accessibility-results.json", a11yFixture)

	out, err := runOpsreport(t, dir, nil, "a11y", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 75.0%")

	data, err := os.ReadFile(filepath.Join(dir, "reports", "accessibility-compliance-summary.json"))
	require.NoError(t, err)

	var summary schema.ComplianceSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 4, summary.TestResults.TotalTests)
	assert.Equal(t, 3, summary.TestResults.Passed)
	assert.Equal(t, 1, summary.TestResults.Failed)
	assert.Equal(t, schema.LevelNotCompliant, summary.ComplianceLevel)
	require.Len(t, summary.Recommendations, 1)
	assert.Equal(t, "Insufficient color contrast in UI elements", summary.Recommendations[0].Issue)
}

// TestA11yMissingReport checks that a missing report exits cleanly without output files.
func TestA11yMissingReport(t *testing.T) {
	dir := t.TempDir()

	_, err := runOpsreport(t, dir, nil, "a11y")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "reports"))
}

// TestLinksVerification runs the links command against a local site.
func TestLinksVerification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			_, _ = fmt.Fprintf(w, `<urlset><url><loc>http://%s/pricing</loc></url></urlset>`, r.Host)
		case "/this-page-should-not-exist-404-check", "/analytics":
			http.NotFound(w, r)
		default:
			_, _ = fmt.Fprint(w, "ok")
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := runOpsreport(t, dir, nil, "links", srv.URL, "--link-workers", "3")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "reports", "link-check-report.json"))
	require.NoError(t, err)

	var report schema.LinkReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 1, report.Summary.SitemapPaths)
	assert.Equal(t, 1, report.Summary.NotFound)
	assert.Len(t, report.NotFound, 2)
	assert.Equal(t, "/pricing", report.Results[0].Path)
}

// TestHistoryWithSQLite runs a pipeline twice and exports the history.
func TestHistoryWithSQLite(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "test-results/accessibility-results.json", a11yFixture)
	env := []string{
		"OPSREPORT_HISTORY_BACKEND=sqlite",
		"OPSREPORT_HISTORY_DB_CONNECT=" + filepath.Join(dir, "history.db"),
	}

	out, err := runOpsreport(t, dir, env, "a11y", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "FIRST_RUN")

	out, err = runOpsreport(t, dir, env, "a11y", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "SAME")

	out, err = runOpsreport(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")

	_, err = runOpsreport(t, dir, env, "history", "export", "--output-file", filepath.Join(dir, "history"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "history.runs.parquet"))
	assert.FileExists(t, filepath.Join(dir, "history.run_items.parquet"))

	_, err = runOpsreport(t, dir, env, "history", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "history.db"))
}
