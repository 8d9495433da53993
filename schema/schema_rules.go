package schema

// ThresholdRule is one fixed limit applied by a pipeline.
type ThresholdRule struct {
	Pipeline   Pipeline `json:"pipeline" yaml:"pipeline"`
	Name       string   `json:"name" yaml:"name"`
	Comparator string   `json:"comparator" yaml:"comparator"`
	Limit      float64  `json:"limit" yaml:"limit"`
	Outcome    string   `json:"outcome" yaml:"outcome"`
}

// KeywordRule is one row of the recommendation keyword tables.
type KeywordRule struct {
	Keyword     string   `json:"keyword" yaml:"keyword"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Issue       string   `json:"issue" yaml:"issue"`
	Remediation string   `json:"remediation" yaml:"remediation"`
	Principle   string   `json:"principle" yaml:"principle"`
}

// RulesModel lists every fixed rule for the rules command.
type RulesModel struct {
	Thresholds []ThresholdRule `json:"thresholds" yaml:"thresholds"`
	Keywords   []KeywordRule   `json:"keywords" yaml:"keywords"`
}
