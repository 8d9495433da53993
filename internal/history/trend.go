package history

import (
	"math"

	"github.com/huangsam/opsreport/schema"
)

// ComputeTrend compares a score with the previous run of the same pipeline.
// Deltas are rounded to two decimals before they are labelled.
func ComputeTrend(previous float64, hasPrevious bool, current float64) schema.Trend {
	if !hasPrevious {
		return schema.Trend{Current: current, Label: schema.TrendFirstRun}
	}
	delta := math.Round((current-previous)*100) / 100
	label := schema.TrendSame
	switch {
	case delta > 0:
		label = schema.TrendImproving
	case delta < 0:
		label = schema.TrendDeclining
	}
	return schema.Trend{Previous: previous, Current: current, Delta: delta, Label: label}
}
