package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteComplianceResults outputs the accessibility digest, dispatching based on the output format configured.
func WriteComplianceResults(w io.Writer, summary *schema.ComplianceSummary, trend *schema.Trend, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, summary); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeYAML(w, summary); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForCompliance(w, summary); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeComplianceText(w, summary, trend, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeComplianceText writes the human-readable digest with a recommendations table.
func writeComplianceText(w io.Writer, s *schema.ComplianceSummary, trend *schema.Trend, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	level := paint(cfg, string(s.ComplianceLevel), contract.GetColorLevel(s.ComplianceLevel))
	tr := s.TestResults

	lines := []string{
		fmt.Sprintf("♿ Accessibility Compliance Summary: %s", s.Application),
		fmt.Sprintf("Score: %s%% (%s)", fmtFloat(s.AccessibilityScore), level),
		fmt.Sprintf("Tests: "+intFmt+" passed, "+intFmt+" failed, "+intFmt+" other of "+intFmt+" (success rate %s)",
			tr.Passed, tr.Failed, tr.OtherStatus, tr.TotalTests, tr.SuccessRate),
	}
	if t := formatTrend(trend, cfg); t != "" {
		lines = append(lines, "Trend: "+t)
	}
	if err := writeLines(w, lines...); err != nil {
		return err
	}

	if len(s.Recommendations) > 0 {
		if err := writeLines(w, "", "Recommendations:"); err != nil {
			return err
		}
		if err := writeRecommendationTable(w, s.Recommendations, cfg); err != nil {
			return err
		}
	}

	if len(s.NextSteps) > 0 {
		if err := writeLines(w, "", "Next steps:"); err != nil {
			return err
		}
		for _, step := range s.NextSteps {
			if _, err := fmt.Fprintf(w, "  • %s\n", step); err != nil {
				return err
			}
		}
	}

	legal := s.LegalCompliance
	if err := writeLines(w, "", "Legal compliance:",
		"  ADA: "+verdict(cfg, legal.ADACompliant),
		"  Section 508: "+verdict(cfg, legal.Section508Compliant),
		"  Regional accessibility: "+verdict(cfg, legal.RegionalCompliant),
	); err != nil {
		return err
	}

	for _, warning := range s.Warnings {
		if _, err := fmt.Fprintf(w, "⚠️  %s\n", warning); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Summary completed in %v. History backend: %s\n", duration, historyLabel(cfg))
	return err
}

// writeRecommendationTable renders one row per failed test.
func writeRecommendationTable(w io.Writer, recs []schema.Recommendation, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	table.Header([]string{"#", "Test", "Priority", "Issue"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := GetMaxTablePathWidth(cfg, 55)
	var data [][]string
	for i, r := range recs {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.TestName, nameWidth),
			paint(cfg, string(r.Priority), contract.GetColorPriority(r.Priority)),
			r.Issue,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForCompliance writes the recommendations as CSV rows.
func writeCSVResultsForCompliance(w io.Writer, s *schema.ComplianceSummary) error {
	header := []string{"run_id", "test_name", "priority", "issue", "remediation"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range s.Recommendations {
			if err := cw.Write([]string{s.RunID, r.TestName, string(r.Priority), r.Issue, r.Remediation}); err != nil {
				return err
			}
		}
		return nil
	})
}

// verdict formats a boolean flag as PASS or FAIL.
func verdict(cfg *contract.Config, ok bool) string {
	return paint(cfg, contract.GetPlainVerdict(ok, false), contract.GetColorVerdict(ok, false))
}

// historyLabel names the history backend for the footer line.
func historyLabel(cfg *contract.Config) string {
	if cfg.HistoryBackend == "" {
		return string(schema.NoneBackend)
	}
	return string(cfg.HistoryBackend)
}
