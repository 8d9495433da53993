package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/opsreport/schema"
)

// Verdict label constants.
const (
	PassValue    = "PASS"
	FailValue    = "FAIL"
	MissingValue = "MISSING"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
	GoodColor     = color.New(color.FgGreen, color.Bold)   // GoodColor represents a met target.
)

// GetColorLevel returns a colored compliance level for console output.
func GetColorLevel(level schema.ComplianceLevel) string {
	switch level {
	case schema.LevelAA:
		return GoodColor.Sprint(level)
	case schema.LevelA:
		return ModerateColor.Sprint(level)
	default:
		return CriticalColor.Sprint(level)
	}
}

// GetColorPriority returns a colored recommendation priority for console output.
func GetColorPriority(p schema.Priority) string {
	switch p {
	case schema.PriorityCritical:
		return CriticalColor.Sprint(p)
	case schema.PriorityHigh:
		return HighColor.Sprint(p)
	case schema.PriorityMedium:
		return ModerateColor.Sprint(p)
	default:
		return LowColor.Sprint(p)
	}
}

// GetPlainVerdict returns PASS, FAIL or MISSING for a check outcome.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainVerdict(passed, missing bool) string {
	switch {
	case missing:
		return MissingValue
	case passed:
		return PassValue
	default:
		return FailValue
	}
}

// GetColorVerdict returns a colored verdict for console output.
func GetColorVerdict(passed, missing bool) string {
	text := GetPlainVerdict(passed, missing)
	switch text {
	case PassValue:
		return GoodColor.Sprint(text)
	case MissingValue:
		return ModerateColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// GetColorLinkClass returns a colored link class for console output.
func GetColorLinkClass(class schema.LinkClass) string {
	switch class {
	case schema.LinkOK, schema.LinkExpectedNotFound:
		return GoodColor.Sprint(class)
	case schema.LinkNotFound, schema.LinkServerError, schema.LinkNetworkError:
		return CriticalColor.Sprint(class)
	default:
		return ModerateColor.Sprint(class)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	if err := EnsureParentDir(filePath); err != nil {
		return nil, err
	}
	return os.Create(filePath)
}

// EnsureParentDir creates the parent directory of a file path if needed.
func EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".opsreport_history.db"
	}
	return filepath.Join(homeDir, ".opsreport_history.db")
}

// TruncatePath truncates a path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
