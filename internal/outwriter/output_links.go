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

// WriteLinkResults outputs the link check digest, dispatching based on the output format configured.
func WriteLinkResults(w io.Writer, report *schema.LinkReport, trend *schema.Trend, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

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
		if err := writeCSVResultsForLinks(w, report); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeLinkTable(w, report, trend, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

func writeLinkTable(w io.Writer, r *schema.LinkReport, trend *schema.Trend, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	s := r.Summary
	if _, err := fmt.Fprintf(w, "🔗 Link Check: %s (%d sitemap paths)\n", s.BaseURL, s.SitemapPaths); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Path", "Status", "Class", "Time (ms)", "Source"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(cfg, 50)
	var data [][]string
	for i, res := range r.Results {
		status := strconv.Itoa(res.Status)
		if res.Status == 0 {
			status = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(res.Path, pathWidth),
			status,
			paint(cfg, string(res.Class), contract.GetColorLinkClass(res.Class)),
			fmt.Sprintf(intFmt, res.DurationMs),
			res.Source,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("Checked %d paths: %d ok, %d not found, %d client errors, %d server errors, %d network errors, %d missing 404",
			s.Total, s.OK, s.NotFound, s.ClientErrors, s.ServerErrors, s.NetworkErrors, s.Missing404),
		fmt.Sprintf("Success rate: %s%%", fmtFloat(s.SuccessRate())),
	}
	if t := formatTrend(trend, cfg); t != "" {
		lines = append(lines, "Trend: "+t)
	}
	for _, res := range r.NotFound {
		if res.Class == schema.LinkNotFound {
			lines = append(lines, "❌ 404: "+res.URL)
		}
	}
	for _, res := range r.Results {
		if res.Error != "" {
			lines = append(lines, fmt.Sprintf("❌ %s: %s", res.Path, res.Error))
		}
	}
	for _, warning := range r.Warnings {
		lines = append(lines, "⚠️  "+warning)
	}
	lines = append(lines, fmt.Sprintf("Link check completed in %v with %d workers. History backend: %s", duration, cfg.LinkWorkers, historyLabel(cfg)))
	return writeLines(w, lines...)
}

// writeCSVResultsForLinks writes one row per checked path.
func writeCSVResultsForLinks(w io.Writer, r *schema.LinkReport) error {
	header := []string{"run_id", "path", "url", "status", "class", "ok", "duration_ms", "source", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, res := range r.Results {
			row := []string{
				r.Summary.RunID,
				res.Path,
				res.URL,
				strconv.Itoa(res.Status),
				string(res.Class),
				strconv.FormatBool(res.OK),
				strconv.FormatInt(res.DurationMs, 10),
				res.Source,
				res.Error,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
