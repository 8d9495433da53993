package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
	"gopkg.in/yaml.v3"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// WriteReportFile writes data as pretty JSON to path. The file is overwritten.
func WriteReportFile(path string, data any) error {
	if path == "" {
		return errors.New("report path cannot be empty")
	}
	return writeWithFile(path, func(w io.Writer) error {
		return writeJSON(w, data)
	}, "Wrote report")
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeYAML is a generic YAML encoder with two-space indentation.
func writeYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// paint returns colored when colors are enabled and plain otherwise.
func paint(cfg *contract.Config, plain, colored string) string {
	if cfg.UseColors {
		return colored
	}
	return plain
}

// formatTrend renders a trend as a short label with its delta.
func formatTrend(trend *schema.Trend, cfg *contract.Config) string {
	if trend == nil {
		return ""
	}
	if trend.Label == schema.TrendFirstRun {
		return paint(cfg, string(trend.Label), color.New(color.FgCyan).Sprint(trend.Label))
	}

	var text string
	switch {
	case trend.Delta > 0:
		text = fmt.Sprintf("%s (+%.*f since last run)", trend.Label, cfg.Precision, trend.Delta)
	default:
		text = fmt.Sprintf("%s (%.*f since last run)", trend.Label, cfg.Precision, trend.Delta)
	}

	var c *color.Color
	switch trend.Label {
	case schema.TrendImproving:
		c = color.New(color.FgGreen)
	case schema.TrendDeclining:
		c = color.New(color.FgRed)
	default:
		c = color.New(color.FgYellow)
	}
	return paint(cfg, text, c.Sprint(text))
}

// writeLines writes each line followed by a newline and stops at the first error.
func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
