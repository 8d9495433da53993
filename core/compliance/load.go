// Package compliance turns a browser test-runner report into an accessibility
// compliance summary: flatten the report tree, aggregate the outcomes, and map
// failures to remediation advice.
package compliance

import (
	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
)

// LoadReport reads the accessibility test-runner artifact at path.
// Errors wrap contract.ErrReportMissing or contract.ErrParse.
func LoadReport(path string) (*schema.ReportNode, error) {
	var root schema.ReportNode
	if err := contract.LoadJSON(path, &root); err != nil {
		return nil, err
	}
	return &root, nil
}
