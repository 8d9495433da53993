package compliance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedReport = `{
  "suites": [
    {
      "title": "home",
      "specs": [
        {"title": "Color Contrast Check", "tests": [{"results": [{"status": "failed"}], "status": "unexpected"}]},
        {"title": "Keyboard Navigation", "tests": [{"results": [{"status": "passed"}]}]}
      ],
      "suites": [
        {
          "title": "forms",
          "specs": [
            {"title": "Form labels", "tests": [{"results": [], "status": "passed"}, {"status": "skipped"}]}
          ],
          "suites": [
            {"specs": [{"title": "Deep spec", "tests": [{"results": [{"status": ""}], "status": "failed"}]}]}
          ]
        }
      ]
    }
  ],
  "specs": [
    {"title": "Root spec", "tests": [{"results": [{"status": "passed"}, {"status": "failed"}]}]}
  ]
}`

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReport(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		node, err := LoadReport(filepath.Join(t.TempDir(), "missing.json"))
		assert.Nil(t, node)
		assert.True(t, errors.Is(err, contract.ErrReportMissing))
	})

	t.Run("malformed file", func(t *testing.T) {
		node, err := LoadReport(writeReport(t, "{"))
		assert.Nil(t, node)
		assert.True(t, errors.Is(err, contract.ErrParse))
	})

	t.Run("nested file", func(t *testing.T) {
		node, err := LoadReport(writeReport(t, nestedReport))
		require.NoError(t, err)
		require.Len(t, node.Suites, 1)
		assert.Len(t, node.Specs, 1)
	})
}

func TestFlatten(t *testing.T) {
	node, err := LoadReport(writeReport(t, nestedReport))
	require.NoError(t, err)

	got := Flatten(node)
	want := []schema.TestOutcome{
		{Title: "Root spec", Status: "passed"},
		{Title: "Color Contrast Check", Status: "failed"},
		{Title: "Keyboard Navigation", Status: "passed"},
		{Title: "Form labels", Status: "passed"},
		{Title: "Form labels", Status: "skipped"},
		{Title: "Deep spec", Status: "failed"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenCountMatchesTests(t *testing.T) {
	// Build a deep chain of suites with a varying number of tests per spec.
	root := &schema.ReportNode{}
	cur := root
	expected := 0
	for depth := range 50 {
		tests := make([]schema.TestRecord, depth%4)
		expected += len(tests)
		cur.Specs = []schema.SpecNode{{Title: "spec", Tests: tests}}
		cur.Suites = []schema.ReportNode{{}}
		cur = &cur.Suites[0]
	}

	assert.Len(t, Flatten(root), expected)
	assert.Nil(t, Flatten(nil))
}

func outcomes(passed, failed, other int) []schema.TestOutcome {
	var out []schema.TestOutcome
	for range passed {
		out = append(out, schema.TestOutcome{Title: "ok", Status: schema.StatusPassed})
	}
	for range failed {
		out = append(out, schema.TestOutcome{Title: "bad", Status: schema.StatusFailed})
	}
	for range other {
		out = append(out, schema.TestOutcome{Title: "skip", Status: "skipped"})
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name          string
		passed        int
		failed        int
		other         int
		expectedScore float64
		expectedLevel schema.ComplianceLevel
		warnings      int
	}{
		{"all passed", 20, 0, 0, 100, schema.LevelAA, 0},
		{"nine of ten", 9, 1, 0, 90, schema.LevelA, 0},
		{"exactly AA", 19, 1, 0, 95, schema.LevelAA, 0},
		{"below A", 8, 2, 0, 80, schema.LevelNotCompliant, 0},
		{"skipped lowers score", 9, 0, 1, 90, schema.LevelA, 1},
		{"no tests", 0, 0, 0, 0, schema.LevelNotCompliant, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, warnings := Aggregate(outcomes(tt.passed, tt.failed, tt.other))
			assert.InDelta(t, tt.expectedScore, m.AccessibilityScore, 1e-9)
			assert.Equal(t, tt.expectedLevel, m.ComplianceLevel)
			assert.Equal(t, m.TotalTests, m.PassedTests+m.FailedTests+m.OtherTests)
			assert.Len(t, warnings, tt.warnings)
		})
	}
}

func TestAggregateScoreIsMonotonic(t *testing.T) {
	const total = 25
	prev := -1.0
	for passed := 0; passed <= total; passed++ {
		m, _ := Aggregate(outcomes(passed, total-passed, 0))
		assert.GreaterOrEqual(t, m.AccessibilityScore, prev)
		prev = m.AccessibilityScore
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, schema.LevelAA, LevelFor(95.0))
	assert.Equal(t, schema.LevelA, LevelFor(94.9))
	assert.Equal(t, schema.LevelA, LevelFor(85.0))
	assert.Equal(t, schema.LevelNotCompliant, LevelFor(84.9))
}

func TestLegalFor(t *testing.T) {
	legal := LegalFor(90)
	assert.True(t, legal.ADACompliant)
	assert.True(t, legal.Section508Compliant)
	assert.True(t, legal.RegionalCompliant)

	legal = LegalFor(89.9)
	assert.False(t, legal.ADACompliant)
	assert.True(t, legal.Section508Compliant)

	legal = LegalFor(84.9)
	assert.False(t, legal.Section508Compliant)
	assert.False(t, legal.RegionalCompliant)
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		priority schema.Priority
		issue    string
	}{
		{"color contrast", "Color Contrast Check", schema.PriorityCritical, "Insufficient color contrast in UI elements"},
		{"unrecognized", "Something Else Entirely", schema.PriorityMedium, "General accessibility violation"},
		{"case insensitive", "KEYBOARD trap on modal", schema.PriorityCritical, "Interactive elements are not reachable by keyboard"},
		{"first entry wins", "Form label focus order", schema.PriorityHigh, "Focus indicator missing or not visible"},
		{"heading", "Heading structure", schema.PriorityMedium, "Heading levels are skipped or out of order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, issue, remediation := Recommend(tt.title)
			assert.Equal(t, tt.priority, priority)
			assert.Equal(t, tt.issue, issue)
			assert.NotEmpty(t, remediation)
		})
	}

	_, _, remediation := Recommend("unknown")
	assert.Equal(t, DefaultRemediation, remediation)
}

func TestRecommendations(t *testing.T) {
	in := []schema.TestOutcome{
		{Title: "Image alt text", Status: schema.StatusFailed},
		{Title: "Keyboard", Status: schema.StatusPassed},
		{Title: "Color Contrast Check", Status: schema.StatusFailed},
		{Title: "Landmarks", Status: "skipped"},
	}

	recs := Recommendations(in)
	require.Len(t, recs, 2)
	assert.Equal(t, "Image alt text", recs[0].TestName)
	assert.Equal(t, "Color Contrast Check", recs[1].TestName)
	assert.Equal(t, schema.PriorityCritical, recs[1].Priority)

	assert.NotNil(t, Recommendations(nil))
}

func TestClassifyPrinciple(t *testing.T) {
	assert.Equal(t, PrinciplePerceivable, ClassifyPrinciple("Color Contrast Check"))
	assert.Equal(t, PrincipleOperable, ClassifyPrinciple("Keyboard Navigation"))
	assert.Equal(t, PrincipleUnderstandable, ClassifyPrinciple("Form labels"))
	assert.Equal(t, PrincipleRobust, ClassifyPrinciple("ARIA attributes"))
	assert.Equal(t, PrincipleUnclassified, ClassifyPrinciple("Miscellaneous"))
}

func TestPrincipleBreakdown(t *testing.T) {
	wcag := PrincipleBreakdown([]schema.TestOutcome{
		{Title: "Color Contrast Check", Status: schema.StatusFailed},
		{Title: "Keyboard Navigation", Status: schema.StatusPassed},
	})
	assert.Equal(t, WCAGVersion, wcag.Version)
	require.Len(t, wcag.Principles, 4)
	assert.Equal(t, schema.PrincipleMetrics{Principle: PrinciplePerceivable, Total: 1, Failed: 1}, wcag.Principles[0])
	assert.Equal(t, schema.PrincipleMetrics{Principle: PrincipleOperable, Total: 1, Passed: 1}, wcag.Principles[1])

	wcag = PrincipleBreakdown([]schema.TestOutcome{{Title: "Misc", Status: schema.StatusPassed}})
	require.Len(t, wcag.Principles, 5)
	assert.Equal(t, PrincipleUnclassified, wcag.Principles[4].Principle)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := append(outcomes(9, 0, 0), schema.TestOutcome{Title: "Color Contrast Check", Status: schema.StatusFailed})

	summary := Summarize(in, "Shop", "run-1", now)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, now, summary.ReportDate)
	assert.Equal(t, "Shop", summary.Application)
	assert.InDelta(t, 90.0, summary.AccessibilityScore, 1e-9)
	assert.Equal(t, schema.LevelA, summary.ComplianceLevel)
	assert.Equal(t, "90.0%", summary.TestResults.SuccessRate)
	assert.True(t, summary.LegalCompliance.ADACompliant)
	assert.True(t, summary.LegalCompliance.Section508Compliant)
	require.Len(t, summary.Recommendations, 1)
	assert.Contains(t, summary.NextSteps[0], "CRITICAL")
	assert.Greater(t, len(summary.NextSteps), len(staticNextSteps))
	assert.Empty(t, summary.Warnings)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, "Shop", "run-2", time.Now())
	assert.Zero(t, summary.AccessibilityScore)
	assert.Equal(t, schema.LevelNotCompliant, summary.ComplianceLevel)
	assert.Len(t, summary.Warnings, 1)
	assert.NotNil(t, summary.Recommendations)
}

func TestRules(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, len(priorityRules))
	assert.Equal(t, "contrast", rules[0].Keyword)
	assert.Equal(t, schema.PriorityCritical, rules[0].Priority)
	assert.Equal(t, PrinciplePerceivable, rules[0].Principle)
}

func TestToRunItems(t *testing.T) {
	items := ToRunItems(outcomes(1, 1, 0))
	require.Len(t, items, 2)
	assert.Equal(t, schema.RunItem{Name: "bad", Status: schema.StatusFailed}, items[1])
}

func TestThresholdRules(t *testing.T) {
	rules := ThresholdRules()
	require.Len(t, rules, 5)
	for _, r := range rules {
		assert.Equal(t, schema.AccessibilityPipeline, r.Pipeline)
		assert.Equal(t, ">=", r.Comparator)
	}
	assert.Equal(t, AAThreshold, rules[0].Limit)
	assert.Equal(t, string(schema.LevelAA), rules[0].Outcome)
}
