// Package perf checks load-test and Lighthouse results against fixed thresholds.
package perf

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
)

// Fixed performance thresholds.
const (
	MaxMeanResponseMs     = 1000.0
	MinCompletionRatio    = 0.95
	MinPerformanceScore   = 0.8
	MinAccessibilityScore = 0.9
	MinPWAScore           = 0.7
)

// Check sources.
const (
	SourceLoadTest   = "load-test"
	SourceLighthouse = "lighthouse"
)

// Artillery metric keys.
const (
	counterCreated   = "vusers.created"
	counterCompleted = "vusers.completed"
	counterFailed    = "vusers.failed"
	counterRequests  = "http.requests"
	summaryResponse  = "http.response_time"
	rateRequests     = "http.request_rate"
)

// Threshold describes one check and the limit it is held to.
type Threshold struct {
	Name       string  `json:"name" yaml:"name"`
	Source     string  `json:"source" yaml:"source"`
	Comparator string  `json:"comparator" yaml:"comparator"`
	Limit      float64 `json:"limit" yaml:"limit"`
	metric     string
}

// Thresholds lists every check in evaluation order.
var Thresholds = []Threshold{
	{Name: "Mean response time (ms)", Source: SourceLoadTest, Comparator: "<", Limit: MaxMeanResponseMs, metric: summaryResponse},
	{Name: "Completion ratio", Source: SourceLoadTest, Comparator: ">", Limit: MinCompletionRatio, metric: counterCompleted},
	{Name: "Lighthouse performance", Source: SourceLighthouse, Comparator: ">=", Limit: MinPerformanceScore, metric: "performance"},
	{Name: "Lighthouse accessibility", Source: SourceLighthouse, Comparator: ">=", Limit: MinAccessibilityScore, metric: "accessibility"},
	{Name: "Lighthouse PWA", Source: SourceLighthouse, Comparator: ">=", Limit: MinPWAScore, metric: "pwa"},
}

// LoadArtillery reads an Artillery JSON report.
func LoadArtillery(path string) (*schema.ArtilleryReport, error) {
	var report schema.ArtilleryReport
	if err := contract.LoadJSON(path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// LoadLighthouse reads a Lighthouse JSON result.
func LoadLighthouse(path string) (*schema.LighthouseReport, error) {
	var report schema.LighthouseReport
	if err := contract.LoadJSON(path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// DigestLoadTest extracts the headline numbers from an Artillery aggregate.
func DigestLoadTest(r *schema.ArtilleryReport) *schema.LoadTestMetrics {
	agg := r.Aggregate
	m := &schema.LoadTestMetrics{
		VUsersCreated:   agg.Counters[counterCreated],
		VUsersCompleted: agg.Counters[counterCompleted],
		VUsersFailed:    agg.Counters[counterFailed],
		Requests:        agg.Counters[counterRequests],
		RequestRate:     agg.Rates[rateRequests],
	}
	if m.VUsersCreated > 0 {
		m.CompletionRatio = m.VUsersCompleted / m.VUsersCreated
	}
	if rt, ok := agg.Summaries[summaryResponse]; ok {
		m.HasResponseTimes = true
		m.MeanResponseMs = rt.Mean
		m.P95ResponseMs = rt.P95
		m.P99ResponseMs = rt.P99
	}
	return m
}

// LighthouseScores returns the category scores that Lighthouse could compute.
func LighthouseScores(r *schema.LighthouseReport) map[string]float64 {
	scores := make(map[string]float64, len(r.Categories))
	for key, cat := range r.Categories {
		if cat.Score != nil {
			scores[key] = *cat.Score
		}
	}
	return scores
}

// Analyze evaluates the available inputs. A nil input skips its checks.
func Analyze(load *schema.ArtilleryReport, lighthouse *schema.LighthouseReport, runID string, now time.Time) *schema.PerformanceReport {
	report := &schema.PerformanceReport{
		RunID:     runID,
		Timestamp: now.UTC(),
		Checks:    make([]schema.ThresholdCheck, 0, len(Thresholds)),
	}

	var loadMetrics *schema.LoadTestMetrics
	if load != nil {
		loadMetrics = DigestLoadTest(load)
		report.LoadTest = loadMetrics
	}
	if lighthouse != nil {
		report.Lighthouse = LighthouseScores(lighthouse)
	}

	for _, th := range Thresholds {
		switch th.Source {
		case SourceLoadTest:
			if loadMetrics == nil {
				continue
			}
			actual, ok := loadTestValue(th, loadMetrics)
			report.Checks = append(report.Checks, evaluate(th, actual, ok))
		case SourceLighthouse:
			if lighthouse == nil {
				continue
			}
			actual, ok := report.Lighthouse[th.metric]
			report.Checks = append(report.Checks, evaluate(th, actual, ok))
		}
	}

	report.Passed = len(report.Checks) > 0 && report.PassedChecks() == len(report.Checks)
	for _, c := range report.Checks {
		if c.Missing {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: metric not present in %s report", c.Name, c.Source))
		}
	}
	return report
}

func loadTestValue(th Threshold, m *schema.LoadTestMetrics) (float64, bool) {
	switch th.metric {
	case summaryResponse:
		return m.MeanResponseMs, m.HasResponseTimes
	case counterCompleted:
		return m.CompletionRatio, m.VUsersCreated > 0
	}
	return 0, false
}

func evaluate(th Threshold, actual float64, present bool) schema.ThresholdCheck {
	check := schema.ThresholdCheck{
		Name:       th.Name,
		Source:     th.Source,
		Threshold:  th.Limit,
		Comparator: th.Comparator,
	}
	if !present {
		check.Missing = true
		return check
	}
	check.Actual = actual
	switch th.Comparator {
	case "<":
		check.Passed = actual < th.Limit
	case ">":
		check.Passed = actual > th.Limit
	case ">=":
		check.Passed = actual >= th.Limit
	}
	return check
}

// Score returns the percentage of checks that passed.
func Score(r *schema.PerformanceReport) float64 {
	if len(r.Checks) == 0 {
		return 0
	}
	return float64(r.PassedChecks()) / float64(len(r.Checks)) * 100
}

// ReportPath returns the timestamped output path for a report generated at now.
func ReportPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("performance-report-%s.json", now.UTC().Format("20060102-150405")))
}

// ToRunItems converts checks into history items.
func ToRunItems(r *schema.PerformanceReport) []schema.RunItem {
	items := make([]schema.RunItem, 0, len(r.Checks))
	for _, c := range r.Checks {
		items = append(items, schema.RunItem{
			Name:   c.Name,
			Status: contract.GetPlainVerdict(c.Passed, c.Missing),
			Detail: fmt.Sprintf("%.3f %s %.3f", c.Actual, c.Comparator, c.Threshold),
		})
	}
	return items
}

// SortedCategories returns Lighthouse category keys in a stable order.
func SortedCategories(scores map[string]float64) []string {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ThresholdRules lists the checks for the rules command.
func ThresholdRules() []schema.ThresholdRule {
	rules := make([]schema.ThresholdRule, 0, len(Thresholds))
	for _, th := range Thresholds {
		rules = append(rules, schema.ThresholdRule{
			Pipeline:   schema.PerformancePipeline,
			Name:       th.Name,
			Comparator: th.Comparator,
			Limit:      th.Limit,
			Outcome:    contract.PassValue,
		})
	}
	return rules
}

// ErrNoPerformanceInputs is returned when neither input report could be used.
var ErrNoPerformanceInputs = errors.New("no usable performance inputs")

// LoadInputs reads whichever reports are usable. A missing or malformed report
// becomes a warning and its section is skipped.
func LoadInputs(loadPath, lighthousePath string) (*schema.ArtilleryReport, *schema.LighthouseReport, []string, error) {
	var warnings []string
	load, err := LoadArtillery(loadPath)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("load test skipped: %v", err))
		load = nil
	}
	lighthouse, err := LoadLighthouse(lighthousePath)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("lighthouse skipped: %v", err))
		lighthouse = nil
	}
	if load == nil && lighthouse == nil {
		return nil, nil, warnings, ErrNoPerformanceInputs
	}
	return load, lighthouse, warnings, nil
}
