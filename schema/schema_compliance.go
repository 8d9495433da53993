package schema

import "time"

// ComplianceMetrics holds the aggregate counts for one accessibility run.
// PassedTests + FailedTests + OtherTests always equals TotalTests.
type ComplianceMetrics struct {
	TotalTests         int             `json:"totalTests" yaml:"totalTests"`
	PassedTests        int             `json:"passedTests" yaml:"passedTests"`
	FailedTests        int             `json:"failedTests" yaml:"failedTests"`
	OtherTests         int             `json:"otherStatusTests" yaml:"otherStatusTests"`
	AccessibilityScore float64         `json:"accessibilityScore" yaml:"accessibilityScore"`
	ComplianceLevel    ComplianceLevel `json:"complianceLevel" yaml:"complianceLevel"`
}

// Recommendation is the remediation advice for a single failing test.
type Recommendation struct {
	TestName    string   `json:"testName" yaml:"testName"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Issue       string   `json:"issue" yaml:"issue"`
	Remediation string   `json:"remediation" yaml:"remediation"`
}

// TestResultsBlock is the testResults section of the compliance summary.
type TestResultsBlock struct {
	TotalTests  int    `json:"totalTests" yaml:"totalTests"`
	Passed      int    `json:"passed" yaml:"passed"`
	Failed      int    `json:"failed" yaml:"failed"`
	OtherStatus int    `json:"otherStatusTests" yaml:"otherStatusTests"`
	SuccessRate string `json:"successRate" yaml:"successRate"`
}

// PrincipleMetrics counts outcomes attributed to one WCAG principle.
type PrincipleMetrics struct {
	Principle string `json:"principle" yaml:"principle"`
	Total     int    `json:"total" yaml:"total"`
	Passed    int    `json:"passed" yaml:"passed"`
	Failed    int    `json:"failed" yaml:"failed"`
}

// WCAGMetrics describes the guideline coverage of a run.
type WCAGMetrics struct {
	Version     string             `json:"version" yaml:"version"`
	TargetLevel string             `json:"targetLevel" yaml:"targetLevel"`
	Principles  []PrincipleMetrics `json:"principles" yaml:"principles"`
}

// LegalCompliance holds the threshold-derived legal flags.
type LegalCompliance struct {
	ADACompliant        bool `json:"ADA_Compliant" yaml:"ADA_Compliant"`
	Section508Compliant bool `json:"Section508_Compliant" yaml:"Section508_Compliant"`
	RegionalCompliant   bool `json:"RegionalAccessibility_Compliant" yaml:"RegionalAccessibility_Compliant"`
}

// ComplianceSummary is the document written once per accessibility run.
type ComplianceSummary struct {
	RunID              string           `json:"runId" yaml:"runId"`
	ReportDate         time.Time        `json:"reportDate" yaml:"reportDate"`
	Application        string           `json:"application" yaml:"application"`
	ComplianceLevel    ComplianceLevel  `json:"complianceLevel" yaml:"complianceLevel"`
	AccessibilityScore float64          `json:"accessibilityScore" yaml:"accessibilityScore"`
	TestResults        TestResultsBlock `json:"testResults" yaml:"testResults"`
	WCAGMetrics        WCAGMetrics      `json:"wcagMetrics" yaml:"wcagMetrics"`
	Recommendations    []Recommendation `json:"recommendations" yaml:"recommendations"`
	NextSteps          []string         `json:"nextSteps" yaml:"nextSteps"`
	LegalCompliance    LegalCompliance  `json:"legalCompliance" yaml:"legalCompliance"`
	Warnings           []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
