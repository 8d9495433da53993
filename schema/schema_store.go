package schema

import "time"

// RunMetrics represents the headline numbers of one pipeline run.
type RunMetrics struct {
	Score       float64 // Pipeline score (0-100)
	Passed      bool    // Whether the run met its thresholds
	TotalItems  int     // Tests, checks or links evaluated
	FailedItems int     // Items that did not pass
	Aborted     bool    // Run stopped early; its score is not recorded
}

// RunItem represents a single evaluated item of a run.
type RunItem struct {
	Name   string
	Status string
	Detail string
}

// RunRecord represents a row from the opsreport_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	Pipeline      string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Score         *float64
	Passed        *bool
	TotalItems    int32
	FailedItems   int32
	ConfigParams  *string
}

// RunItemRecord represents a row from the opsreport_run_items table.
type RunItemRecord struct {
	RunID    int64
	ItemSeq  int32
	ItemName string
	Status   string
	Detail   *string
}

// Trend compares a run score with the previous run of the same pipeline.
type Trend struct {
	Previous float64    `json:"previous" yaml:"previous"`
	Current  float64    `json:"current" yaml:"current"`
	Delta    float64    `json:"delta" yaml:"delta"`
	Label    TrendLabel `json:"label" yaml:"label"`
}
