package cmd

import (
	"fmt"

	"github.com/huangsam/opsreport/core"
	"github.com/spf13/cobra"
)

// rulesCmd prints the fixed thresholds and keyword tables.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the fixed thresholds and recommendation keywords.",
	Long: `Print every rule the pipelines apply, in evaluation order.

Includes:
- Compliance level bands and legal flag thresholds
- Performance check thresholds
- The recommendation keyword table (first match wins)

Examples:
  # Show the rules as tables
  opsreport rules

  # Dump the rules as YAML
  opsreport rules --output yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecuteRules(rootCtx, cfg, historyManager); err != nil {
			return fmt.Errorf("cannot print rules: %w", err)
		}
		return nil
	},
}
