// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCompliance prints the accessibility digest to stdout or the configured output file.
func (ow *OutWriter) WriteCompliance(summary *schema.ComplianceSummary, trend *schema.Trend, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComplianceResults(w, summary, trend, cfg, duration)
	}, "Wrote accessibility digest")
}

// WritePerformance prints the performance digest to stdout or the configured output file.
func (ow *OutWriter) WritePerformance(report *schema.PerformanceReport, trend *schema.Trend, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WritePerformanceResults(w, report, trend, cfg, duration)
	}, "Wrote performance digest")
}

// WriteLinks prints the link check digest to stdout or the configured output file.
func (ow *OutWriter) WriteLinks(report *schema.LinkReport, trend *schema.Trend, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteLinkResults(w, report, trend, cfg, duration)
	}, "Wrote link digest")
}

// WriteRules prints the fixed rules to stdout or the configured output file.
func (ow *OutWriter) WriteRules(rules schema.RulesModel, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRulesResults(w, rules, cfg)
	}, "Wrote rules")
}

// WriteReport writes a pipeline artifact as pretty JSON, creating parent directories.
func (ow *OutWriter) WriteReport(path string, data any) error {
	return WriteReportFile(path, data)
}
