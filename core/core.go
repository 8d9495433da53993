// Package core has core logic for running the report pipelines and tracking their history.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/opsreport/core/compliance"
	"github.com/huangsam/opsreport/core/links"
	"github.com/huangsam/opsreport/core/perf"
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/internal/outwriter"
	"github.com/huangsam/opsreport/schema"
	"go.uber.org/zap"
)

// ExecutorFunc defines the function signature for executing the different pipelines.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

var writer = outwriter.NewOutWriter()

// ExecuteA11y runs the accessibility pipeline, writes the summary file and prints the digest.
// It serves as the main entry point for the 'a11y' command.
func ExecuteA11y(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	summary, trend, err := GetComplianceResults(ctx, cfg, mgr)
	if err != nil {
		if isSkippable(err) {
			contract.LogWarn("Accessibility summary skipped", err)
			return nil
		}
		return err
	}
	if err := writer.WriteReport(cfg.SummaryFile, summary); err != nil {
		return fmt.Errorf("failed to write compliance summary: %w", err)
	}
	return writer.WriteCompliance(summary, trend, cfg, time.Since(start))
}

// ExecutePerf runs the performance pipeline, writes the timestamped report and prints the digest.
// It serves as the main entry point for the 'perf' command.
func ExecutePerf(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	report, trend, err := GetPerformanceResults(ctx, cfg, mgr)
	if err != nil {
		if isSkippable(err) {
			contract.LogWarn("Performance report skipped", err)
			return nil
		}
		return err
	}
	if err := writer.WriteReport(perf.ReportPath(cfg.PerfReportDir, report.Timestamp), report); err != nil {
		return fmt.Errorf("failed to write performance report: %w", err)
	}
	return writer.WritePerformance(report, trend, cfg, time.Since(start))
}

// ExecuteLinks runs the link checker against cfg.BaseURL, writes the link report and prints the digest.
// It serves as the main entry point for the 'links' command.
func ExecuteLinks(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	report, trend, err := GetLinkResults(ctx, cfg, mgr, nil)
	if err != nil {
		return err
	}
	if err := writer.WriteReport(cfg.LinkReportFile, report); err != nil {
		return fmt.Errorf("failed to write link report: %w", err)
	}
	return writer.WriteLinks(report, trend, cfg, time.Since(start))
}

// ExecuteRules prints the fixed thresholds and keyword tables.
func ExecuteRules(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return writer.WriteRules(GetRules(), cfg)
}

// GetComplianceResults loads the test-runner report and builds the compliance summary.
// The trend is nil when history tracking is off.
func GetComplianceResults(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*schema.ComplianceSummary, *schema.Trend, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if !shouldSuppressHeader(ctx) {
		logPipelineHeader(cfg, schema.AccessibilityPipeline, cfg.ReportPath)
	}

	start := time.Now()
	root, err := compliance.LoadReport(cfg.ReportPath)
	if err != nil {
		return nil, nil, err
	}
	outcomes := compliance.Flatten(root)

	runID := uuid.NewString()
	tracker := beginTracking(mgr, schema.AccessibilityPipeline, runID, start, map[string]any{
		"report_path": cfg.ReportPath,
		"application": cfg.Application,
	})

	summary := compliance.Summarize(outcomes, cfg.Application, runID, start)
	cfg.Log().Debug("accessibility summary built",
		zap.String("run_id", runID),
		zap.Int("tests", summary.TestResults.TotalTests),
		zap.Float64("score", summary.AccessibilityScore))

	trend := tracker.finish(compliance.ToRunItems(outcomes), schema.RunMetrics{
		Score:       summary.AccessibilityScore,
		Passed:      summary.ComplianceLevel != schema.LevelNotCompliant,
		TotalItems:  summary.TestResults.TotalTests,
		FailedItems: summary.TestResults.Failed,
	})
	return summary, trend, nil
}

// GetPerformanceResults loads the load-test and Lighthouse reports and checks them
// against the fixed thresholds. It returns perf.ErrNoPerformanceInputs when neither
// report is usable.
func GetPerformanceResults(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*schema.PerformanceReport, *schema.Trend, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if !shouldSuppressHeader(ctx) {
		logPipelineHeader(cfg, schema.PerformancePipeline, cfg.LoadTestPath+", "+cfg.LighthousePath)
	}

	start := time.Now()
	load, lighthouse, warnings, err := perf.LoadInputs(cfg.LoadTestPath, cfg.LighthousePath)
	for _, w := range warnings {
		cfg.Log().Warn(w)
	}
	if err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()
	tracker := beginTracking(mgr, schema.PerformancePipeline, runID, start, map[string]any{
		"load_report":       cfg.LoadTestPath,
		"lighthouse_report": cfg.LighthousePath,
	})

	report := perf.Analyze(load, lighthouse, runID, start)
	report.Warnings = append(warnings, report.Warnings...)

	trend := tracker.finish(perf.ToRunItems(report), schema.RunMetrics{
		Score:       perf.Score(report),
		Passed:      report.Passed,
		TotalItems:  len(report.Checks),
		FailedItems: len(report.Checks) - report.PassedChecks(),
	})
	return report, trend, nil
}

// GetLinkResults checks the sitemap and critical routes of cfg.BaseURL.
// A nil client uses a plain HTTP client with the configured request timeout.
func GetLinkResults(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, client contract.HTTPDoer) (*schema.LinkReport, *schema.Trend, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if !shouldSuppressHeader(ctx) {
		logPipelineHeader(cfg, schema.LinksPipeline, cfg.BaseURL)
	}
	if client == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = contract.RequestTimeout
		}
		client = links.NewHTTPClient(timeout)
	}
	checker, err := links.NewChecker(cfg, client)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid base URL: %w", err)
	}

	start := time.Now()
	runID := uuid.NewString()
	tracker := beginTracking(mgr, schema.LinksPipeline, runID, start, map[string]any{
		"base_url": cfg.BaseURL,
		"workers":  cfg.LinkWorkers,
		"crawl":    cfg.Crawl,
	})

	report, err := checker.Run(ctx, runID)
	if err != nil {
		tracker.abort()
		return nil, nil, err
	}

	s := report.Summary
	trend := tracker.finish(links.ToRunItems(report.Results), schema.RunMetrics{
		Score:       s.SuccessRate(),
		Passed:      s.Total > 0 && s.OK == s.Total,
		TotalItems:  s.Total,
		FailedItems: s.Total - s.OK,
	})
	return report, trend, nil
}

// GetRules lists every fixed threshold and the recommendation keyword table.
func GetRules() schema.RulesModel {
	thresholds := compliance.ThresholdRules()
	thresholds = append(thresholds, perf.ThresholdRules()...)
	return schema.RulesModel{
		Thresholds: thresholds,
		Keywords:   compliance.Rules(),
	}
}

// isSkippable reports whether err means the input artifacts were unusable,
// in which case the pipeline ends without output instead of failing.
func isSkippable(err error) bool {
	return errors.Is(err, contract.ErrReportMissing) ||
		errors.Is(err, contract.ErrParse) ||
		errors.Is(err, perf.ErrNoPerformanceInputs)
}
