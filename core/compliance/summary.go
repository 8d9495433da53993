package compliance

import (
	"fmt"
	"time"

	"github.com/huangsam/opsreport/schema"
)

// staticNextSteps close every summary regardless of the score.
var staticNextSteps = []string{
	"Schedule a quarterly manual audit with assistive technology",
	"Test critical flows with NVDA and VoiceOver screen readers",
	"Keep the automated accessibility suite in the CI pipeline",
	"Publish an accessibility statement with a contact for feedback",
}

// Summarize runs the aggregation stages over flattened outcomes and assembles
// the summary document.
func Summarize(outcomes []schema.TestOutcome, application, runID string, now time.Time) *schema.ComplianceSummary {
	metrics, warnings := Aggregate(outcomes)
	recs := Recommendations(outcomes)

	return &schema.ComplianceSummary{
		RunID:              runID,
		ReportDate:         now.UTC(),
		Application:        application,
		ComplianceLevel:    metrics.ComplianceLevel,
		AccessibilityScore: metrics.AccessibilityScore,
		TestResults: schema.TestResultsBlock{
			TotalTests:  metrics.TotalTests,
			Passed:      metrics.PassedTests,
			Failed:      metrics.FailedTests,
			OtherStatus: metrics.OtherTests,
			SuccessRate: fmt.Sprintf("%.1f%%", metrics.AccessibilityScore),
		},
		WCAGMetrics:     PrincipleBreakdown(outcomes),
		Recommendations: recs,
		NextSteps:       NextSteps(metrics, recs),
		LegalCompliance: LegalFor(metrics.AccessibilityScore),
		Warnings:        warnings,
	}
}

// NextSteps returns the follow-up actions for a run. Score-dependent steps come first.
func NextSteps(m schema.ComplianceMetrics, recs []schema.Recommendation) []string {
	var steps []string
	if critical := countPriority(recs, schema.PriorityCritical); critical > 0 {
		steps = append(steps, fmt.Sprintf("Fix %d CRITICAL issue(s) before the next release", critical))
	}
	if m.FailedTests > 0 {
		steps = append(steps, fmt.Sprintf("Resolve the remaining %d failing accessibility test(s)", m.FailedTests))
	}
	if m.ComplianceLevel != schema.LevelAA {
		steps = append(steps, fmt.Sprintf("Raise the accessibility score to %.0f%% to reach %s", AAThreshold, schema.LevelAA))
	}
	return append(steps, staticNextSteps...)
}

func countPriority(recs []schema.Recommendation, p schema.Priority) int {
	n := 0
	for _, r := range recs {
		if r.Priority == p {
			n++
		}
	}
	return n
}

// ToRunItems converts outcomes into history items.
func ToRunItems(outcomes []schema.TestOutcome) []schema.RunItem {
	items := make([]schema.RunItem, 0, len(outcomes))
	for _, o := range outcomes {
		items = append(items, schema.RunItem{Name: o.Title, Status: o.Status})
	}
	return items
}
