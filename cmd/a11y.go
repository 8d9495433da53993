package cmd

import (
	"fmt"

	"github.com/huangsam/opsreport/core"
	"github.com/spf13/cobra"
)

// a11yCmd summarizes an accessibility test run.
var a11yCmd = &cobra.Command{
	Use:   "a11y",
	Short: "Summarize accessibility test results into a WCAG compliance report.",
	Long: `Read the browser test-runner JSON report and build an accessibility compliance summary.

The summary includes:
- An accessibility score (passed / total tests)
- The WCAG 2.1 level band (AA at 95+, A at 85+)
- Prioritized remediation advice for every failed test
- Legal flags for ADA, Section 508 and regional accessibility rules

The summary is written as JSON to --summary-file, and a digest is printed.
A missing or malformed report prints a warning and writes nothing.

Examples:
  # Summarize the default report
  opsreport a11y

  # Summarize a specific report and track history in SQLite
  opsreport a11y --a11y-report test-results/a11y.json --history-backend sqlite

  # Export the recommendations to CSV
  opsreport a11y --output csv --output-file recommendations.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecuteA11y(rootCtx, cfg, historyManager); err != nil {
			return fmt.Errorf("cannot run accessibility summary: %w", err)
		}
		return nil
	},
}
