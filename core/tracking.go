package core

import (
	"fmt"
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/internal/history"
	"github.com/huangsam/opsreport/schema"
)

// runTracker records one pipeline run in the history store.
// A zero runID means tracking is off for this run.
type runTracker struct {
	store    contract.HistoryStore
	pipeline schema.Pipeline
	runID    int64
}

// beginTracking opens a run when a history store is configured.
// Store failures are logged and never fail the pipeline.
func beginTracking(mgr contract.HistoryManager, pipeline schema.Pipeline, runUUID string, start time.Time, params map[string]any) *runTracker {
	tracker := &runTracker{pipeline: pipeline}
	if mgr == nil {
		return tracker
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return tracker
	}
	runID, err := store.BeginRun(pipeline, runUUID, start, params)
	if err != nil {
		logTrackingError("BeginRun", pipeline, err)
		return tracker
	}
	tracker.store = store
	tracker.runID = runID
	return tracker
}

// finish stores the items and metrics of the run and returns the trend against
// the previous run of the same pipeline. It returns nil when tracking is off.
func (t *runTracker) finish(items []schema.RunItem, metrics schema.RunMetrics) *schema.Trend {
	if t.store == nil || t.runID <= 0 {
		return nil
	}
	if err := t.store.RecordItems(t.runID, items); err != nil {
		logTrackingError("RecordItems", t.pipeline, err)
	}
	if err := t.store.EndRun(t.runID, time.Now(), metrics); err != nil {
		logTrackingError("EndRun", t.pipeline, err)
		return nil
	}
	previous, ok, err := t.store.LastScore(t.pipeline, t.runID)
	if err != nil {
		logTrackingError("LastScore", t.pipeline, err)
		return nil
	}
	trend := history.ComputeTrend(previous, ok, metrics.Score)
	return &trend
}

// abort closes a run that stopped before producing results.
func (t *runTracker) abort() {
	if t.store == nil || t.runID <= 0 {
		return
	}
	if err := t.store.EndRun(t.runID, time.Now(), schema.RunMetrics{Aborted: true}); err != nil {
		logTrackingError("EndRun", t.pipeline, err)
	}
}

// logTrackingError logs history tracking errors to stderr without disrupting the pipeline.
func logTrackingError(operation string, pipeline schema.Pipeline, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on %s", operation, pipeline), err)
}
