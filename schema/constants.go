package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// Pipeline identifies one of the report pipelines.
	Pipeline string

	// Priority represents the urgency of a recommendation.
	Priority string

	// ComplianceLevel represents the WCAG band a score falls into.
	ComplianceLevel string

	// TrendLabel describes how a score moved since the previous run.
	TrendLabel string

	// LinkClass represents the classification of a link check result.
	LinkClass string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
	YAMLOut OutputMode = "yaml"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All pipelines supported.
const (
	AccessibilityPipeline Pipeline = "accessibility"
	PerformancePipeline   Pipeline = "performance"
	LinksPipeline         Pipeline = "links"
)

// Recommendation priorities.
const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Compliance levels, highest first.
const (
	LevelAA           ComplianceLevel = "WCAG 2.1 AA Certified"
	LevelA            ComplianceLevel = "WCAG 2.1 A Certified"
	LevelNotCompliant ComplianceLevel = "Not Fully Compliant"
)

// Trend labels.
const (
	TrendFirstRun  TrendLabel = "FIRST_RUN"
	TrendImproving TrendLabel = "IMPROVING"
	TrendDeclining TrendLabel = "DECLINING"
	TrendSame      TrendLabel = "SAME"
)

// Link check classes.
const (
	LinkOK               LinkClass = "ok"
	LinkExpectedNotFound LinkClass = "expected_not_found"
	LinkNotFound         LinkClass = "not_found"
	LinkClientError      LinkClass = "client_error"
	LinkServerError      LinkClass = "server_error"
	LinkNetworkError     LinkClass = "network_error"
	LinkMissing404       LinkClass = "missing_404"
)

// Test statuses that count toward the score.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// AllPipelines returns a list of all supported pipelines.
var AllPipelines = []Pipeline{AccessibilityPipeline, PerformancePipeline, LinksPipeline}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
	YAMLOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
