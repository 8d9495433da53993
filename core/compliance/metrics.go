package compliance

import (
	"fmt"

	"github.com/huangsam/opsreport/schema"
)

// Fixed score thresholds, in percent.
const (
	AAThreshold         = 95.0
	AThreshold          = 85.0
	ADAThreshold        = 90.0
	Section508Threshold = 85.0
	RegionalThreshold   = 85.0
)

// WCAG target reported in every summary.
const (
	WCAGVersion     = "2.1"
	WCAGTargetLevel = "AA"
)

// Principle names used by ClassifyPrinciple.
const (
	PrinciplePerceivable    = "perceivable"
	PrincipleOperable       = "operable"
	PrincipleUnderstandable = "understandable"
	PrincipleRobust         = "robust"
	PrincipleUnclassified   = "unclassified"
)

// principleRules maps title keywords to WCAG principles. First match wins.
var principleRules = []keywordRule[string]{
	{"contrast", PrinciplePerceivable},
	{"color", PrinciplePerceivable},
	{"alt text", PrinciplePerceivable},
	{"image", PrinciplePerceivable},
	{"caption", PrinciplePerceivable},
	{"heading", PrinciplePerceivable},
	{"landmark", PrinciplePerceivable},
	{"keyboard", PrincipleOperable},
	{"focus", PrincipleOperable},
	{"skip", PrincipleOperable},
	{"navigation", PrincipleOperable},
	{"link", PrincipleOperable},
	{"label", PrincipleUnderstandable},
	{"form", PrincipleUnderstandable},
	{"language", PrincipleUnderstandable},
	{"error", PrincipleUnderstandable},
	{"aria", PrincipleRobust},
	{"role", PrincipleRobust},
	{"html", PrincipleRobust},
}

var principleOrder = []string{
	PrinciplePerceivable,
	PrincipleOperable,
	PrincipleUnderstandable,
	PrincipleRobust,
}

// Aggregate counts the outcomes and derives the score and compliance level.
// Statuses other than passed and failed count toward the total only.
// Warnings describe conditions that make the score less meaningful.
func Aggregate(outcomes []schema.TestOutcome) (schema.ComplianceMetrics, []string) {
	var m schema.ComplianceMetrics
	var warnings []string

	for _, o := range outcomes {
		m.TotalTests++
		switch o.Status {
		case schema.StatusPassed:
			m.PassedTests++
		case schema.StatusFailed:
			m.FailedTests++
		default:
			m.OtherTests++
		}
	}

	if m.TotalTests == 0 {
		warnings = append(warnings, "report contains no tests; accessibility score set to 0")
	} else {
		m.AccessibilityScore = float64(m.PassedTests) / float64(m.TotalTests) * 100
	}
	if m.OtherTests > 0 {
		warnings = append(warnings, fmt.Sprintf("%d test(s) with a status other than passed or failed count toward the total only", m.OtherTests))
	}
	m.ComplianceLevel = LevelFor(m.AccessibilityScore)
	return m, warnings
}

// LevelFor maps a score to its compliance band.
func LevelFor(score float64) schema.ComplianceLevel {
	switch {
	case score >= AAThreshold:
		return schema.LevelAA
	case score >= AThreshold:
		return schema.LevelA
	default:
		return schema.LevelNotCompliant
	}
}

// LegalFor derives the legal compliance flags from a score.
func LegalFor(score float64) schema.LegalCompliance {
	return schema.LegalCompliance{
		ADACompliant:        score >= ADAThreshold,
		Section508Compliant: score >= Section508Threshold,
		RegionalCompliant:   score >= RegionalThreshold,
	}
}

// ClassifyPrinciple returns the WCAG principle a test title belongs to.
func ClassifyPrinciple(title string) string {
	return lookup(principleRules, title, PrincipleUnclassified)
}

// PrincipleBreakdown counts outcomes per WCAG principle. The four principles are
// always present; unclassified appears only when some title matched nothing.
func PrincipleBreakdown(outcomes []schema.TestOutcome) schema.WCAGMetrics {
	byName := make(map[string]*schema.PrincipleMetrics, len(principleOrder)+1)
	principles := make([]schema.PrincipleMetrics, 0, len(principleOrder)+1)
	for _, p := range principleOrder {
		principles = append(principles, schema.PrincipleMetrics{Principle: p})
	}
	principles = append(principles, schema.PrincipleMetrics{Principle: PrincipleUnclassified})
	for i := range principles {
		byName[principles[i].Principle] = &principles[i]
	}

	for _, o := range outcomes {
		pm := byName[ClassifyPrinciple(o.Title)]
		pm.Total++
		switch o.Status {
		case schema.StatusPassed:
			pm.Passed++
		case schema.StatusFailed:
			pm.Failed++
		}
	}

	if last := principles[len(principles)-1]; last.Total == 0 {
		principles = principles[:len(principles)-1]
	}
	return schema.WCAGMetrics{
		Version:     WCAGVersion,
		TargetLevel: WCAGTargetLevel,
		Principles:  principles,
	}
}

// ThresholdRules lists the score bands and legal flags.
func ThresholdRules() []schema.ThresholdRule {
	return []schema.ThresholdRule{
		{Pipeline: schema.AccessibilityPipeline, Name: "Accessibility score", Comparator: ">=", Limit: AAThreshold, Outcome: string(schema.LevelAA)},
		{Pipeline: schema.AccessibilityPipeline, Name: "Accessibility score", Comparator: ">=", Limit: AThreshold, Outcome: string(schema.LevelA)},
		{Pipeline: schema.AccessibilityPipeline, Name: "Accessibility score", Comparator: ">=", Limit: ADAThreshold, Outcome: "ADA_Compliant"},
		{Pipeline: schema.AccessibilityPipeline, Name: "Accessibility score", Comparator: ">=", Limit: Section508Threshold, Outcome: "Section508_Compliant"},
		{Pipeline: schema.AccessibilityPipeline, Name: "Accessibility score", Comparator: ">=", Limit: RegionalThreshold, Outcome: "RegionalAccessibility_Compliant"},
	}
}
