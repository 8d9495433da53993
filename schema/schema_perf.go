package schema

import "time"

// ArtilleryReport is the top-level shape of an Artillery JSON report.
type ArtilleryReport struct {
	Aggregate ArtilleryAggregate `json:"aggregate"`
}

// ArtilleryAggregate holds the run-wide counters and latency summaries.
type ArtilleryAggregate struct {
	Counters  map[string]float64          `json:"counters"`
	Rates     map[string]float64          `json:"rates"`
	Summaries map[string]ArtillerySummary `json:"summaries"`
}

// ArtillerySummary is a latency distribution in milliseconds.
type ArtillerySummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// LighthouseReport is the subset of a Lighthouse result used for scoring.
type LighthouseReport struct {
	FinalURL   string                        `json:"finalUrl"`
	Categories map[string]LighthouseCategory `json:"categories"`
}

// LighthouseCategory is a single category score in the 0..1 range.
// Score is nil when Lighthouse could not compute it.
type LighthouseCategory struct {
	Title string   `json:"title"`
	Score *float64 `json:"score"`
}

// ThresholdCheck is the outcome of comparing one metric against its limit.
type ThresholdCheck struct {
	Name       string  `json:"name" yaml:"name"`
	Source     string  `json:"source" yaml:"source"`
	Actual     float64 `json:"actual" yaml:"actual"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	Comparator string  `json:"comparator" yaml:"comparator"`
	Passed     bool    `json:"passed" yaml:"passed"`
	Missing    bool    `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// LoadTestMetrics is the digest of an Artillery aggregate.
type LoadTestMetrics struct {
	VUsersCreated    float64 `json:"vusersCreated" yaml:"vusersCreated"`
	VUsersCompleted  float64 `json:"vusersCompleted" yaml:"vusersCompleted"`
	VUsersFailed     float64 `json:"vusersFailed" yaml:"vusersFailed"`
	Requests         float64 `json:"requests" yaml:"requests"`
	CompletionRatio  float64 `json:"completionRatio" yaml:"completionRatio"`
	MeanResponseMs   float64 `json:"meanResponseMs" yaml:"meanResponseMs"`
	P95ResponseMs    float64 `json:"p95ResponseMs" yaml:"p95ResponseMs"`
	P99ResponseMs    float64 `json:"p99ResponseMs" yaml:"p99ResponseMs"`
	RequestRate      float64 `json:"requestRate" yaml:"requestRate"`
	HasResponseTimes bool    `json:"hasResponseTimes" yaml:"hasResponseTimes"`
}

// PerformanceReport is the combined load-test and Lighthouse report.
type PerformanceReport struct {
	RunID      string             `json:"runId" yaml:"runId"`
	Timestamp  time.Time          `json:"timestamp" yaml:"timestamp"`
	LoadTest   *LoadTestMetrics   `json:"loadTest,omitempty" yaml:"loadTest,omitempty"`
	Lighthouse map[string]float64 `json:"lighthouse,omitempty" yaml:"lighthouse,omitempty"`
	Checks     []ThresholdCheck   `json:"checks" yaml:"checks"`
	Passed     bool               `json:"passed" yaml:"passed"`
	Warnings   []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// PassedChecks returns how many checks passed.
func (r *PerformanceReport) PassedChecks() int {
	n := 0
	for _, c := range r.Checks {
		if c.Passed {
			n++
		}
	}
	return n
}
