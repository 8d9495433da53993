package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePerformanceResults outputs the performance digest, dispatching based on the output format configured.
func WritePerformanceResults(w io.Writer, report *schema.PerformanceReport, trend *schema.Trend, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeYAML(w, report); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForPerformance(w, report); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writePerformanceText(w, report, trend, cfg, fmtFloat, duration)
	}
	return nil
}

func writePerformanceText(w io.Writer, r *schema.PerformanceReport, trend *schema.Trend, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "⚡ Performance Report (run %s)\n", r.RunID); err != nil {
		return err
	}
	if lt := r.LoadTest; lt != nil {
		line := fmt.Sprintf("Load test: %.0f virtual users created, %.0f completed (%s%%), %.0f failed, %.0f requests",
			lt.VUsersCreated, lt.VUsersCompleted, fmtFloat(lt.CompletionRatio*100), lt.VUsersFailed, lt.Requests)
		if lt.HasResponseTimes {
			line += fmt.Sprintf(", mean %s ms, p95 %s ms, p99 %s ms",
				fmtFloat(lt.MeanResponseMs), fmtFloat(lt.P95ResponseMs), fmtFloat(lt.P99ResponseMs))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(r.Lighthouse) > 0 {
		keys := make([]string, 0, len(r.Lighthouse))
		for k := range r.Lighthouse {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s %.2f", k, r.Lighthouse[k]))
		}
		if _, err := fmt.Fprintf(w, "Lighthouse: %s\n", strings.Join(parts, ", ")); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Source", "Actual", "Threshold", "Result"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, c := range r.Checks {
		actual := "-"
		if !c.Missing {
			actual = formatCheckValue(c.Actual)
		}
		data = append(data, []string{
			c.Name,
			c.Source,
			actual,
			c.Comparator + " " + formatCheckValue(c.Threshold),
			paint(cfg, contract.GetPlainVerdict(c.Passed, c.Missing), contract.GetColorVerdict(c.Passed, c.Missing)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("Overall: %s (%d/%d checks passed)", verdict(cfg, r.Passed), r.PassedChecks(), len(r.Checks)),
	}
	if t := formatTrend(trend, cfg); t != "" {
		lines = append(lines, "Trend: "+t)
	}
	for _, warning := range r.Warnings {
		lines = append(lines, "⚠️  "+warning)
	}
	lines = append(lines, fmt.Sprintf("Analysis completed in %v. History backend: %s", duration, historyLabel(cfg)))
	return writeLines(w, lines...)
}

// formatCheckValue keeps ratios readable and large values compact.
func formatCheckValue(v float64) string {
	if v >= 10 || v <= -10 {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.3f", v)
}

// writeCSVResultsForPerformance writes one row per threshold check.
func writeCSVResultsForPerformance(w io.Writer, r *schema.PerformanceReport) error {
	header := []string{"run_id", "check", "source", "actual", "comparator", "threshold", "result"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range r.Checks {
			row := []string{
				r.RunID,
				c.Name,
				c.Source,
				fmt.Sprintf("%g", c.Actual),
				c.Comparator,
				fmt.Sprintf("%g", c.Threshold),
				contract.GetPlainVerdict(c.Passed, c.Missing),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
