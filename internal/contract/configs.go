package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/opsreport/schema"
	"go.uber.org/zap"
)

// Default values for configuration.
const (
	DefaultPrecision      = 1
	DefaultLinkWorkers    = 1
	MaxLinkWorkers        = 32
	DefaultBaseURL        = "http://localhost:3000"
	DefaultApplication    = "Barbershop Marketing Ops"
	DefaultReportPath     = "test-results/accessibility-results.json"
	DefaultSummaryFile    = "reports/accessibility-compliance-summary.json"
	DefaultLoadTestPath   = "reports/load-test-results.json"
	DefaultLighthousePath = "reports/lighthouse-results.json"
	DefaultPerfReportDir  = "reports"
	DefaultLinkReportFile = "reports/link-check-report.json"
)

// RequestTimeout is the fixed per-request timeout of the link checker.
const RequestTimeout = 20 * time.Second

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for every pipeline.
// This struct remains the "final, validated" config.
type Config struct {
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	Verbose    bool
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// Accessibility pipeline
	ReportPath  string
	SummaryFile string
	Application string

	// Performance pipeline
	LoadTestPath   string
	LighthousePath string
	PerfReportDir  string

	// Link checker
	BaseURL        string
	LinkReportFile string
	LinkWorkers    int
	Crawl          bool
	RequestTimeout time.Duration

	// Logger receives diagnostics. Use Log() to read it.
	Logger *zap.Logger
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	BaseURLStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Verbose          bool   `mapstructure:"verbose"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from a11yCmd.Flags() ---
	ReportPath  string `mapstructure:"a11y-report"`
	SummaryFile string `mapstructure:"summary-file"`
	Application string `mapstructure:"application"`

	// --- Fields from perfCmd.Flags() ---
	LoadReport       string `mapstructure:"load-report"`
	LighthouseReport string `mapstructure:"lighthouse-report"`
	ReportDir        string `mapstructure:"report-dir"`

	// --- Fields from linksCmd.Flags() ---
	LinkReport  string `mapstructure:"link-report"`
	LinkWorkers int    `mapstructure:"link-workers"`
	Crawl       bool   `mapstructure:"crawl"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Log returns the configured logger, or a no-op logger when none is set.
func (c *Config) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateHistoryConfig(cfg, input); err != nil {
		return err
	}
	if err := processPipelinePaths(cfg, input); err != nil {
		return err
	}
	if err := processLinkOptions(cfg, input); err != nil {
		return err
	}
	if cfg.Logger == nil {
		logger, err := NewLogger(cfg.Verbose)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		cfg.Logger = logger
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateBaseURL normalizes a base URL and checks it is an absolute http(s) URL.
func ValidateBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBaseURL, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL '%s': scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL '%s': missing host", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, yaml", input.Output)
	}

	return nil
}

// validateHistoryConfig validates the history backend configuration.
// An empty backend disables history tracking.
func validateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.HistoryBackend)))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// processPipelinePaths applies defaults to every input and output path.
func processPipelinePaths(cfg *Config, input *ConfigRawInput) error {
	cfg.ReportPath = valueOrDefault(input.ReportPath, DefaultReportPath)
	cfg.SummaryFile = valueOrDefault(input.SummaryFile, DefaultSummaryFile)
	cfg.Application = valueOrDefault(input.Application, DefaultApplication)
	cfg.LoadTestPath = valueOrDefault(input.LoadReport, DefaultLoadTestPath)
	cfg.LighthousePath = valueOrDefault(input.LighthouseReport, DefaultLighthousePath)
	cfg.PerfReportDir = valueOrDefault(input.ReportDir, DefaultPerfReportDir)
	cfg.LinkReportFile = valueOrDefault(input.LinkReport, DefaultLinkReportFile)

	if cfg.SummaryFile == cfg.ReportPath {
		return fmt.Errorf("summary file must differ from the input report (both are %q)", cfg.ReportPath)
	}
	return nil
}

// processLinkOptions handles the base URL and the link worker count.
func processLinkOptions(cfg *Config, input *ConfigRawInput) error {
	base, err := ValidateBaseURL(input.BaseURLStr)
	if err != nil {
		return err
	}
	cfg.BaseURL = base

	workers := input.LinkWorkers
	if workers == 0 {
		workers = DefaultLinkWorkers
	}
	if workers < 1 || workers > MaxLinkWorkers {
		return fmt.Errorf("link-workers must be between 1 and %d (received %d)", MaxLinkWorkers, input.LinkWorkers)
	}
	cfg.LinkWorkers = workers
	cfg.Crawl = input.Crawl
	cfg.RequestTimeout = RequestTimeout
	return nil
}

func valueOrDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
