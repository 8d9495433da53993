package cmd

import (
	"fmt"

	"github.com/huangsam/opsreport/core"
	"github.com/spf13/cobra"
)

// perfCmd checks load-test and Lighthouse results against fixed thresholds.
var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Check load-test and Lighthouse results against performance thresholds.",
	Long: `Combine an Artillery load-test report and a Lighthouse report into one performance report.

Checks:
- Mean response time under 1000 ms
- Virtual user completion ratio above 0.95
- Lighthouse performance at least 0.8
- Lighthouse accessibility at least 0.9
- Lighthouse PWA at least 0.7

Either input may be missing. Its checks are then skipped with a warning.
The report is written to <report-dir>/performance-report-<UTC timestamp>.json.

Examples:
  # Analyze the default reports
  opsreport perf

  # Analyze reports from another directory
  opsreport perf --load-report out/load.json --lighthouse-report out/lh.json --report-dir out`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecutePerf(rootCtx, cfg, historyManager); err != nil {
			return fmt.Errorf("cannot run performance analysis: %w", err)
		}
		return nil
	},
}
