// Package cmd defines the command-line interface for opsreport.
package cmd

import (
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(a11yCmd)
	rootCmd.AddCommand(perfCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv or yaml")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug diagnostics to stderr")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of a11yCmd to Viper
	a11yCmd.Flags().String("a11y-report", contract.DefaultReportPath, "Path to the accessibility test-runner JSON report")
	a11yCmd.Flags().String("summary-file", contract.DefaultSummaryFile, "Path to write the compliance summary")
	a11yCmd.Flags().String("application", contract.DefaultApplication, "Application name shown in the summary")
	if err := viper.BindPFlags(a11yCmd.Flags()); err != nil {
		contract.LogFatal("Error binding a11y flags", err)
	}

	// Bind all flags of perfCmd to Viper
	perfCmd.Flags().String("load-report", contract.DefaultLoadTestPath, "Path to the Artillery JSON report")
	perfCmd.Flags().String("lighthouse-report", contract.DefaultLighthousePath, "Path to the Lighthouse JSON report")
	perfCmd.Flags().String("report-dir", contract.DefaultPerfReportDir, "Directory for the timestamped performance report")
	if err := viper.BindPFlags(perfCmd.Flags()); err != nil {
		contract.LogFatal("Error binding perf flags", err)
	}

	// Bind all flags of linksCmd to Viper
	linksCmd.Flags().String("link-report", contract.DefaultLinkReportFile, "Path to write the link check report")
	linksCmd.Flags().Int("link-workers", contract.DefaultLinkWorkers, "Maximum concurrent link requests")
	linksCmd.Flags().Bool("crawl", false, "Also check internal links found on fetched HTML pages (one level)")
	if err := viper.BindPFlags(linksCmd.Flags()); err != nil {
		contract.LogFatal("Error binding links flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
