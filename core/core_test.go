package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/opsreport/core/compliance"
	"github.com/huangsam/opsreport/core/links"
	"github.com/huangsam/opsreport/core/perf"
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/internal/history"
	"github.com/huangsam/opsreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const a11yReport = `{
  "suites": [{
    "title": "accessibility",
    "specs": [
      {"title": "Color Contrast Check", "tests": [{"results": [{"status": "failed"}]}]},
      {"title": "Images have alt text", "tests": [{"status": "passed"}]},
      {"title": "Keyboard navigation", "tests": [{"results": [{"status": "passed"}]}]},
      {"title": "Form labels", "tests": [{"results": [{"status": "passed"}]}]}
    ]
  }]
}`

const loadReport = `{"aggregate": {
  "counters": {"vusers.created": 10, "vusers.completed": 10},
  "summaries": {"http.response_time": {"mean": 120, "p95": 300, "p99": 400}}
}}`

const lighthouseReport = `{"categories": {
  "performance": {"score": 0.9},
  "accessibility": {"score": 0.95},
  "pwa": {"score": 0.5}
}}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	return &contract.Config{
		Output:         schema.JSONOut,
		OutputFile:     filepath.Join(dir, "digest.out"),
		Precision:      1,
		Width:          120,
		Application:    "Shop",
		SummaryFile:    filepath.Join(dir, "reports", "summary.json"),
		PerfReportDir:  filepath.Join(dir, "perf"),
		LinkReportFile: filepath.Join(dir, "reports", "links.json"),
		LinkWorkers:    2,
		HistoryBackend: schema.NoneBackend,
	}
}

// trackedStore returns a mock store that accepts one run with the given ID and previous score.
func trackedStore(pipeline schema.Pipeline, runID int64, previous float64, hasPrevious bool) (*history.MockHistoryManager, *history.MockHistoryStore) {
	store := &history.MockHistoryStore{}
	store.On("BeginRun", pipeline, mock.AnythingOfType("string"), mock.Anything, mock.Anything).Return(runID, nil)
	store.On("RecordItems", runID, mock.Anything).Return(nil)
	store.On("EndRun", runID, mock.Anything, mock.Anything).Return(nil)
	store.On("LastScore", pipeline, runID).Return(previous, hasPrevious, nil)

	mgr := &history.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)
	return mgr, store
}

func TestGetComplianceResults(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportPath = writeTemp(t, "results.json", a11yReport)

	t.Run("without history", func(t *testing.T) {
		summary, trend, err := GetComplianceResults(context.Background(), cfg, nil)
		require.NoError(t, err)
		assert.Nil(t, trend)
		assert.Equal(t, 75.0, summary.AccessibilityScore)
		assert.Equal(t, schema.LevelNotCompliant, summary.ComplianceLevel)
		require.Len(t, summary.Recommendations, 1)
		assert.Equal(t, schema.PriorityCritical, summary.Recommendations[0].Priority)
		assert.NotEmpty(t, summary.RunID)
	})

	t.Run("with history", func(t *testing.T) {
		mgr, store := trackedStore(schema.AccessibilityPipeline, 7, 50, true)
		_, trend, err := GetComplianceResults(context.Background(), cfg, mgr)
		require.NoError(t, err)
		require.NotNil(t, trend)
		assert.Equal(t, schema.TrendImproving, trend.Label)
		assert.Equal(t, 25.0, trend.Delta)

		store.AssertCalled(t, "EndRun", int64(7), mock.Anything, mock.MatchedBy(func(m schema.RunMetrics) bool {
			return m.TotalItems == 4 && m.FailedItems == 1 && !m.Passed
		}))
		store.AssertCalled(t, "RecordItems", int64(7), mock.MatchedBy(func(items []schema.RunItem) bool {
			return len(items) == 4 && items[0].Name == "Color Contrast Check"
		}))
	})

	t.Run("tracking failure keeps the result", func(t *testing.T) {
		store := &history.MockHistoryStore{}
		store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
		mgr := &history.MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)

		summary, trend, err := GetComplianceResults(context.Background(), cfg, mgr)
		require.NoError(t, err)
		assert.NotNil(t, summary)
		assert.Nil(t, trend)
		store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing report", func(t *testing.T) {
		missing := cfg.Clone()
		missing.ReportPath = filepath.Join(t.TempDir(), "none.json")
		_, _, err := GetComplianceResults(context.Background(), missing, nil)
		assert.ErrorIs(t, err, contract.ErrReportMissing)
	})
}

func TestExecuteA11y(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportPath = writeTemp(t, "results.json", a11yReport)

	require.NoError(t, ExecuteA11y(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.SummaryFile)
	require.NoError(t, err)
	var summary schema.ComplianceSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "Shop", summary.Application)
	assert.Equal(t, 4, summary.TestResults.TotalTests)

	digest, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(digest), `"accessibilityScore": 75`)
}

func TestExecuteA11ySkipsUnusableInput(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.json") }},
		{"malformed", func(t *testing.T) string { return writeTemp(t, "bad.json", "{not json") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.ReportPath = tt.path(t)
			require.NoError(t, ExecuteA11y(context.Background(), cfg, nil))
			assert.NoFileExists(t, cfg.SummaryFile)
			assert.NoFileExists(t, cfg.OutputFile)
		})
	}
}

func TestGetPerformanceResults(t *testing.T) {
	cfg := testConfig(t)
	cfg.LoadTestPath = writeTemp(t, "load.json", loadReport)
	cfg.LighthousePath = writeTemp(t, "lh.json", lighthouseReport)

	mgr, store := trackedStore(schema.PerformancePipeline, 3, 0, false)
	report, trend, err := GetPerformanceResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	require.Len(t, report.Checks, 5)
	assert.False(t, report.Passed)
	assert.Equal(t, 4, report.PassedChecks())
	require.NotNil(t, trend)
	assert.Equal(t, schema.TrendFirstRun, trend.Label)
	assert.Equal(t, 80.0, trend.Current)
	store.AssertExpectations(t)
}

func TestGetPerformanceResultsPartialInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.LoadTestPath = filepath.Join(t.TempDir(), "none.json")
	cfg.LighthousePath = writeTemp(t, "lh.json", lighthouseReport)

	report, _, err := GetPerformanceResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, report.LoadTest)
	assert.Len(t, report.Checks, 3)
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "load test skipped")
}

func TestExecutePerf(t *testing.T) {
	cfg := testConfig(t)
	cfg.LoadTestPath = writeTemp(t, "load.json", loadReport)
	cfg.LighthousePath = writeTemp(t, "lh.json", lighthouseReport)

	require.NoError(t, ExecutePerf(context.Background(), cfg, nil))
	matches, err := filepath.Glob(filepath.Join(cfg.PerfReportDir, "performance-report-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	t.Run("no inputs", func(t *testing.T) {
		empty := testConfig(t)
		empty.LoadTestPath = filepath.Join(t.TempDir(), "a.json")
		empty.LighthousePath = filepath.Join(t.TempDir(), "b.json")
		_, _, err := GetPerformanceResults(context.Background(), empty, nil)
		assert.ErrorIs(t, err, perf.ErrNoPerformanceInputs)
		require.NoError(t, ExecutePerf(context.Background(), empty, nil))
		assert.NoDirExists(t, empty.PerfReportDir)
	})
}

func newLinkSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `<urlset><url><loc>http://%s/about</loc></url></urlset>`, r.Host)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == links.NotFoundProbePath {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, "ok")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetLinkResults(t *testing.T) {
	srv := newLinkSite(t)
	cfg := testConfig(t)
	cfg.BaseURL = srv.URL

	mgr, store := trackedStore(schema.LinksPipeline, 11, 90, true)
	report, trend, err := GetLinkResults(context.Background(), cfg, mgr, srv.Client())
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, 1, s.SitemapPaths)
	assert.Equal(t, 1+len(links.CriticalRoutes)+1, s.Total)
	assert.Equal(t, s.Total, s.OK)
	require.Len(t, report.NotFound, 1)
	assert.Equal(t, schema.LinkExpectedNotFound, report.NotFound[0].Class)

	require.NotNil(t, trend)
	assert.Equal(t, schema.TrendImproving, trend.Label)
	store.AssertCalled(t, "EndRun", int64(11), mock.Anything, mock.MatchedBy(func(m schema.RunMetrics) bool {
		return m.Passed && m.FailedItems == 0 && m.Score == 100
	}))
}

func TestExecuteLinks(t *testing.T) {
	srv := newLinkSite(t)
	cfg := testConfig(t)
	cfg.BaseURL = srv.URL

	require.NoError(t, ExecuteLinks(context.Background(), cfg, nil))
	data, err := os.ReadFile(cfg.LinkReportFile)
	require.NoError(t, err)
	var report schema.LinkReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, srv.URL, report.Summary.BaseURL)
	assert.NotEmpty(t, report.Results)
}

func TestGetLinkResultsCancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseURL = "http://127.0.0.1:1"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := GetLinkResults(ctx, cfg, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetLinkResultsCancelledSkipsTracking(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseURL = "http://127.0.0.1:1"
	mgr, store := trackedStore(schema.LinksPipeline, 5, 0, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := GetLinkResults(ctx, cfg, mgr, nil)
	assert.ErrorIs(t, err, context.Canceled)
	store.AssertNotCalled(t, "BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// cancelingDoer cancels the run on its first request.
type cancelingDoer struct {
	cancel context.CancelFunc
}

func (d cancelingDoer) Do(req *http.Request) (*http.Response, error) {
	d.cancel()
	return nil, req.Context().Err()
}

func TestGetLinkResultsInterruptedRunIsClosed(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseURL = "http://127.0.0.1:1"
	mgr, store := trackedStore(schema.LinksPipeline, 5, 0, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, trend, err := GetLinkResults(ctx, cfg, mgr, cancelingDoer{cancel: cancel})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, trend)
	store.AssertCalled(t, "EndRun", int64(5), mock.Anything, schema.RunMetrics{Aborted: true})
	store.AssertNotCalled(t, "RecordItems", mock.Anything, mock.Anything)
}

func TestGetRules(t *testing.T) {
	rules := GetRules()
	assert.Len(t, rules.Thresholds, len(compliance.ThresholdRules())+len(perf.Thresholds))
	assert.Equal(t, compliance.Rules(), rules.Keywords)

	pipelines := map[schema.Pipeline]int{}
	for _, r := range rules.Thresholds {
		pipelines[r.Pipeline]++
	}
	assert.Equal(t, len(perf.Thresholds), pipelines[schema.PerformancePipeline])
	assert.Positive(t, pipelines[schema.AccessibilityPipeline])
}

func TestExecuteRules(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.YAMLOut
	require.NoError(t, ExecuteRules(context.Background(), cfg, nil))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "keywords:")
}
