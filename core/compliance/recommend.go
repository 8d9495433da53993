package compliance

import (
	"strings"

	"github.com/huangsam/opsreport/schema"
)

// Fallbacks for titles that match no keyword.
const (
	DefaultPriority    = schema.PriorityMedium
	DefaultIssue       = "General accessibility violation"
	DefaultRemediation = "Review the failing check against the WCAG 2.1 success criteria and fix the reported elements"
)

// keywordRule pairs a lowercase title keyword with the value it selects.
type keywordRule[T any] struct {
	Keyword string
	Value   T
}

// lookup returns the value of the first rule whose keyword occurs in name, ignoring case.
func lookup[T any](rules []keywordRule[T], name string, fallback T) T {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if strings.Contains(lower, r.Keyword) {
			return r.Value
		}
	}
	return fallback
}

// Table order is significant: a title matching several keywords takes the first entry.
var priorityRules = []keywordRule[schema.Priority]{
	{"contrast", schema.PriorityCritical},
	{"keyboard", schema.PriorityCritical},
	{"focus", schema.PriorityHigh},
	{"aria", schema.PriorityHigh},
	{"label", schema.PriorityHigh},
	{"form", schema.PriorityHigh},
	{"alt text", schema.PriorityHigh},
	{"image", schema.PriorityHigh},
	{"heading", schema.PriorityMedium},
	{"landmark", schema.PriorityMedium},
	{"language", schema.PriorityLow},
	{"title", schema.PriorityLow},
}

var issueRules = []keywordRule[string]{
	{"contrast", "Insufficient color contrast in UI elements"},
	{"keyboard", "Interactive elements are not reachable by keyboard"},
	{"focus", "Focus indicator missing or not visible"},
	{"aria", "Invalid or missing ARIA attributes"},
	{"label", "Form controls missing accessible labels"},
	{"form", "Form fields lack accessible structure"},
	{"alt text", "Images missing alternative text"},
	{"image", "Images missing alternative text"},
	{"heading", "Heading levels are skipped or out of order"},
	{"landmark", "Page regions missing landmark roles"},
	{"language", "Document language not declared"},
	{"title", "Page title missing or not descriptive"},
}

var remediationRules = []keywordRule[string]{
	{"contrast", "Raise the contrast ratio to at least 4.5:1 for body text and 3:1 for large text"},
	{"keyboard", "Make every control reachable with Tab and operable with Enter or Space"},
	{"focus", "Add a visible :focus-visible style to all focusable elements"},
	{"aria", "Use valid ARIA roles and attributes, preferring native HTML elements"},
	{"label", "Associate each input with a <label> or aria-labelledby"},
	{"form", "Group related fields with fieldset and legend and announce validation errors"},
	{"alt text", "Give informative images descriptive alt text and decorative images an empty alt"},
	{"image", "Give informative images descriptive alt text and decorative images an empty alt"},
	{"heading", "Use a single h1 and nest headings without skipping levels"},
	{"landmark", "Wrap page content in main and navigation landmarks"},
	{"language", "Set the lang attribute on the html element"},
	{"title", "Give every page a unique and descriptive <title>"},
}

// Recommend maps a failing test title to its priority, issue and remediation.
// Each of the three is looked up independently.
func Recommend(testName string) (schema.Priority, string, string) {
	return lookup(priorityRules, testName, DefaultPriority),
		lookup(issueRules, testName, DefaultIssue),
		lookup(remediationRules, testName, DefaultRemediation)
}

// Recommendations returns one recommendation per failed outcome, in input order.
func Recommendations(outcomes []schema.TestOutcome) []schema.Recommendation {
	recs := make([]schema.Recommendation, 0)
	for _, o := range outcomes {
		if o.Status != schema.StatusFailed {
			continue
		}
		priority, issue, remediation := Recommend(o.Title)
		recs = append(recs, schema.Recommendation{
			TestName:    o.Title,
			Priority:    priority,
			Issue:       issue,
			Remediation: remediation,
		})
	}
	return recs
}

// Rules lists the recommendation keywords in table order.
func Rules() []schema.KeywordRule {
	rules := make([]schema.KeywordRule, 0, len(priorityRules))
	for _, r := range priorityRules {
		priority, issue, remediation := Recommend(r.Keyword)
		rules = append(rules, schema.KeywordRule{
			Keyword:     r.Keyword,
			Priority:    priority,
			Issue:       issue,
			Remediation: remediation,
			Principle:   ClassifyPrinciple(r.Keyword),
		})
	}
	return rules
}
