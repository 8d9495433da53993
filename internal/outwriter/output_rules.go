package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRulesResults outputs the fixed thresholds and keyword tables.
func WriteRulesResults(w io.Writer, rules schema.RulesModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, rules); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeYAML(w, rules); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVRules(w, rules); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeRulesText(w, rules, cfg)
	}
	return nil
}

func writeRulesText(w io.Writer, rules schema.RulesModel, cfg *contract.Config) error {
	if err := writeLines(w, "📏 Thresholds"); err != nil {
		return err
	}
	thresholds := tablewriter.NewWriter(w)
	thresholds.Header([]string{"Pipeline", "Rule", "Limit", "Outcome"})
	thresholds.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, r := range rules.Thresholds {
		data = append(data, []string{
			string(r.Pipeline),
			r.Name,
			r.Comparator + " " + strconv.FormatFloat(r.Limit, 'g', -1, 64),
			r.Outcome,
		})
	}
	if err := thresholds.Bulk(data); err != nil {
		return err
	}
	if err := thresholds.Render(); err != nil {
		return err
	}

	if err := writeLines(w, "", "🔑 Recommendation keywords (first match wins)"); err != nil {
		return err
	}
	keywords := tablewriter.NewWriter(w)
	keywords.Header([]string{"#", "Keyword", "Priority", "Issue", "Principle"})
	keywords.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	data = nil
	for i, k := range rules.Keywords {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			k.Keyword,
			paint(cfg, string(k.Priority), contract.GetColorPriority(k.Priority)),
			k.Issue,
			k.Principle,
		})
	}
	if err := keywords.Bulk(data); err != nil {
		return err
	}
	return keywords.Render()
}

// writeCSVRules writes the keyword table, which is the only tabular part that varies per row.
func writeCSVRules(w io.Writer, rules schema.RulesModel) error {
	header := []string{"keyword", "priority", "issue", "remediation", "principle"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, k := range rules.Keywords {
			if err := cw.Write([]string{k.Keyword, string(k.Priority), k.Issue, k.Remediation, k.Principle}); err != nil {
				return err
			}
		}
		return nil
	})
}
