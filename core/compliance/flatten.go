package compliance

import "github.com/huangsam/opsreport/schema"

// Flatten walks the report tree and returns one outcome per test record.
// At every node the specs are visited before the nested suites, both in input order.
func Flatten(node *schema.ReportNode) []schema.TestOutcome {
	if node == nil {
		return nil
	}
	var outcomes []schema.TestOutcome
	flattenInto(node, &outcomes)
	return outcomes
}

func flattenInto(node *schema.ReportNode, out *[]schema.TestOutcome) {
	for _, spec := range node.Specs {
		for _, test := range spec.Tests {
			*out = append(*out, schema.TestOutcome{
				Title:  spec.Title,
				Status: resolveStatus(test),
			})
		}
	}
	for i := range node.Suites {
		flattenInto(&node.Suites[i], out)
	}
}

// resolveStatus prefers the first result's status and falls back to the test status.
func resolveStatus(test schema.TestRecord) string {
	if len(test.Results) > 0 && test.Results[0].Status != "" {
		return test.Results[0].Status
	}
	return test.Status
}
