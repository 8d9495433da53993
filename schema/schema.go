// Package schema has models and constants for all parts of opsreport.
package schema

// ReportNode is one level of a test-runner report tree. Suites nest to any depth
// and specs hold the actual test records.
type ReportNode struct {
	Title  string       `json:"title,omitempty"`
	Suites []ReportNode `json:"suites,omitempty"`
	Specs  []SpecNode   `json:"specs,omitempty"`
}

// SpecNode is a leaf group of tests sharing one display title.
type SpecNode struct {
	Title string       `json:"title"`
	Tests []TestRecord `json:"tests,omitempty"`
}

// TestRecord is a single test run inside a spec.
type TestRecord struct {
	Results []TestResult `json:"results,omitempty"`
	Status  string       `json:"status,omitempty"`
}

// TestResult is one attempt of a test record.
type TestResult struct {
	Status string `json:"status,omitempty"`
}

// TestOutcome is a flattened test tagged with its parent spec title.
type TestOutcome struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}
